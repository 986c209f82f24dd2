package sqlcgen

import (
	"context"
	"time"
)

const listRoomOccupancy = `-- name: ListRoomOccupancy :many
SELECT room_id,
       occupied,
       observed_at
FROM room_occupancy
WHERE observed_at >= $1
ORDER BY room_id ASC
`

// ListRoomOccupancy returns readings observed at or after since.
func (q *Queries) ListRoomOccupancy(ctx context.Context, since time.Time) ([]RoomOccupancy, error) {
	rows, err := q.db.Query(ctx, listRoomOccupancy, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RoomOccupancy
	for rows.Next() {
		var i RoomOccupancy
		if err := rows.Scan(&i.RoomID, &i.Occupied, &i.ObservedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertRoomOccupancy = `-- name: UpsertRoomOccupancy :exec
INSERT INTO room_occupancy (room_id, occupied, observed_at)
VALUES ($1, $2, COALESCE($3, now()))
ON CONFLICT (room_id) DO UPDATE
SET occupied = EXCLUDED.occupied,
    observed_at = EXCLUDED.observed_at
`

type UpsertRoomOccupancyParams struct {
	RoomID     string
	Occupied   bool
	ObservedAt *time.Time
}

// UpsertRoomOccupancy records one reading. The directory never writes
// occupancy itself; this exists for sensor bridges and tests.
func (q *Queries) UpsertRoomOccupancy(ctx context.Context, arg UpsertRoomOccupancyParams) error {
	_, err := q.db.Exec(ctx, upsertRoomOccupancy, arg.RoomID, arg.Occupied, arg.ObservedAt)
	return err
}
