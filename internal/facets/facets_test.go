package facets

import (
	"reflect"
	"testing"

	"roomdir/internal/directory"
)

func TestNormalizeCodes(t *testing.T) {
	got := NormalizeCodes([]string{" WIFI", "PROJ", "", "PROJ ", "WIFI"})
	want := []string{"PROJ", "WIFI"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if NormalizeCodes([]string{" ", ""}) != nil {
		t.Fatalf("expected nil for all-empty input")
	}
}

func TestToggle(t *testing.T) {
	codes := Toggle(nil, "PROJ", true)
	codes = Toggle(codes, "WIFI", true)
	if !reflect.DeepEqual(codes, []string{"PROJ", "WIFI"}) {
		t.Fatalf("unexpected codes after enable: %v", codes)
	}
	codes = Toggle(codes, "PROJ", false)
	if !reflect.DeepEqual(codes, []string{"WIFI"}) {
		t.Fatalf("unexpected codes after disable: %v", codes)
	}
}

func TestFloorOptions_DistinctAndOrdered(t *testing.T) {
	rooms := []directory.Room{
		{ID: "1", Floor: "2"},
		{ID: "2", Floor: "10"},
		{ID: "3", Floor: "B"},
		{ID: "4", Floor: "2.0"},
		{ID: "5"},
		{ID: "6", Floor: "-1"},
	}
	got := FloorOptions(rooms)
	var values []string
	for _, o := range got {
		values = append(values, o.Value)
	}
	want := []string{"-1", "2", "10", "B"}
	if !reflect.DeepEqual(values, want) {
		t.Fatalf("expected %v, got %v", want, values)
	}
}

func TestBuildingAndFeatureOptions(t *testing.T) {
	b := BuildingOptions([]directory.Building{{ID: "9", Name: "Main"}, {ID: "10"}, {Name: "orphan"}})
	if len(b) != 2 || b[0].Label != "Main" || b[1].Label != "10" {
		t.Fatalf("unexpected building options: %+v", b)
	}

	f := FeatureOptions([]directory.Feature{{Code: "PROJ", Name: "Projector"}, {Name: "no code"}, {Code: "PROJ"}, {Code: "WIFI"}})
	if len(f) != 2 || f[0].Label != "Projector" || f[1].Label != "WIFI" {
		t.Fatalf("unexpected feature options: %+v", f)
	}
}
