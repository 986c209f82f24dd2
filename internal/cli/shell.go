package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/net/html"

	"roomdir/internal/app"
	"roomdir/internal/directory"
	"roomdir/internal/search"
	"roomdir/internal/view"
)

var errExit = errors.New("exit requested")

const shellHelp = `commands:
  list                      show the filtered rooms
  search <text>             type into the search box
  key <down|up|enter|esc>   press a key in the search box
  pick <n>                  choose suggestion n
  blur                      leave the search box
  select <n>                open list entry n
  open <id>                 open a room by id
  back                      return to the list
  building <id|all>         filter by building
  floor <value|all>         filter by floor
  feature <code> [on|off]   require or drop a feature (toggles without on/off)
  filters                   show or hide the filter panel
  facets                    show the filter options
  help                      this text
  exit                      quit`

// Shell drives one session controller from typed commands.
type Shell struct {
	ctrl *app.Controller
	out  io.Writer
}

func NewShell(ctrl *app.Controller, out io.Writer) *Shell {
	return &Shell{ctrl: ctrl, out: out}
}

// Alert prints a detail load failure.
func (s *Shell) Alert(msg string) {
	fmt.Fprintf(s.out, "! %s\n", msg)
}

// Exec runs one command line. It returns errExit on exit or quit.
func (s *Shell) Exec(ctx context.Context, line string) error {
	args := ParseArgs(strings.TrimSpace(line))
	if len(args) == 0 {
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return errExit
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return nil
	case "list", "ls":
	case "search", "type":
		s.ctrl.Type(strings.Join(args[1:], " "))
	case "key":
		if len(args) != 2 {
			return fmt.Errorf("usage: key <down|up|enter|esc>")
		}
		k, ok := search.ParseKey(args[1])
		if !ok {
			return fmt.Errorf("unknown key %q", args[1])
		}
		if err := s.ctrl.Key(ctx, k); err != nil {
			return alerted(err)
		}
	case "pick":
		n, err := indexArg(args)
		if err != nil {
			return err
		}
		if err := s.ctrl.PickSuggestion(ctx, n); err != nil {
			return alerted(err)
		}
	case "blur":
		s.ctrl.Blur()
	case "select":
		n, err := indexArg(args)
		if err != nil {
			return err
		}
		entry := s.listEntry(n)
		if entry == nil {
			return fmt.Errorf("no list entry %d", n+1)
		}
		if err := s.ctrl.Click(ctx, entry); err != nil {
			return alerted(err)
		}
	case "open":
		if len(args) != 2 {
			return fmt.Errorf("usage: open <id>")
		}
		if err := s.ctrl.Open(ctx, directory.ID(args[1])); err != nil {
			return alerted(err)
		}
	case "back":
		s.ctrl.Back()
	case "building":
		s.ctrl.SelectBuilding(facetArg(args))
	case "floor":
		s.ctrl.SelectFloor(facetArg(args))
	case "feature":
		if len(args) < 2 {
			return fmt.Errorf("usage: feature <code> [on|off]")
		}
		on, err := featureState(s.ctrl.State().Criteria.Features, args)
		if err != nil {
			return err
		}
		s.ctrl.ToggleFeature(args[1], on)
	case "filters":
		s.ctrl.ToggleFilters()
		if s.ctrl.State().FiltersVisible {
			fmt.Fprintln(s.out, "filters shown")
		} else {
			fmt.Fprintln(s.out, "filters hidden")
		}
		return nil
	case "facets":
		s.printFacets()
		return nil
	default:
		return fmt.Errorf("unknown command %q (try help)", args[0])
	}

	s.show()
	return nil
}

// alerted drops backend failures the notifier already reported.
func alerted(err error) error {
	if errors.Is(err, directory.ErrRequestFailed) {
		return nil
	}
	return err
}

func indexArg(args []string) (int, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("usage: %s <n>", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid index %q", args[1])
	}
	return n - 1, nil
}

func facetArg(args []string) string {
	if len(args) < 2 || strings.EqualFold(args[1], "all") {
		return ""
	}
	return args[1]
}

func featureState(current []string, args []string) (bool, error) {
	if len(args) >= 3 {
		switch strings.ToLower(args[2]) {
		case "on", "yes", "true":
			return true, nil
		case "off", "no", "false":
			return false, nil
		default:
			return false, fmt.Errorf("invalid feature state %q", args[2])
		}
	}
	for _, c := range current {
		if c == args[1] {
			return false, nil
		}
	}
	return true, nil
}

func (s *Shell) listEntry(i int) *html.Node {
	list := s.ctrl.Document().ByID(view.IDRoomList)
	var rooms []*html.Node
	for _, li := range view.Children(list) {
		if _, ok := view.Attr(li, "data-room-id"); ok {
			rooms = append(rooms, li)
		}
	}
	if i < 0 || i >= len(rooms) {
		return nil
	}
	return rooms[i]
}

func (s *Shell) show() {
	if f, open := s.ctrl.Detail(); open {
		tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Room\t%s\n", f.Name)
		fmt.Fprintf(tw, "Capacity\t%s\n", f.Capacity)
		fmt.Fprintf(tw, "Features\t%s\n", f.Features)
		fmt.Fprintf(tw, "Status\t%s\n", f.Status)
		_ = tw.Flush()
		fmt.Fprintln(s.out, "(back to return)")
		return
	}

	if items, cursor := s.ctrl.Suggestions(); len(items) > 0 {
		fmt.Fprintln(s.out, "suggestions:")
		for i, r := range items {
			marker := " "
			if i == cursor {
				marker = ">"
			}
			fmt.Fprintf(s.out, " %s %d. %s\n", marker, i+1, r.Label())
		}
	}

	st := s.ctrl.State()
	if len(st.Filtered) == 0 {
		fmt.Fprintln(s.out, "No rooms found")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for i, r := range st.Filtered {
		fmt.Fprintf(tw, "%d.\t%s\t%s\tfloor %s\n", i+1, r.ID, r.Label(), r.Floor)
	}
	_ = tw.Flush()
	fmt.Fprintf(s.out, "%d of %d rooms\n", len(st.Filtered), len(st.Snapshot.Rooms))
}

func (s *Shell) printFacets() {
	set := s.ctrl.Facets()
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, o := range set.Buildings {
		fmt.Fprintf(tw, "building\t%s\t%s\n", o.Value, o.Label)
	}
	for _, o := range set.Floors {
		fmt.Fprintf(tw, "floor\t%s\t%s\n", o.Value, o.Label)
	}
	for _, o := range set.Features {
		fmt.Fprintf(tw, "feature\t%s\t%s\n", o.Value, o.Label)
	}
	_ = tw.Flush()
}

// ParseArgs splits a command line on spaces, keeping double-quoted runs
// together.
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
		case ' ', '\t':
			if inQuotes {
				current.WriteRune(char)
				continue
			}
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
