package query

import (
	"encoding/json"
	"testing"
)

type projectRow struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Housing     bool   `json:"housing"`
}

func projectJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}

func TestProjectKeepsOnlySelectedFieldsPlusID(t *testing.T) {
	rows := []projectRow{
		{ID: 1, Name: "Devworks", Description: "long text", Housing: true},
		{ID: 2, Name: "ModernTech", Description: "more text", Housing: false},
	}

	got := Project(rows, []string{"name", "housing"})

	want := `[{"housing":true,"id":1,"name":"Devworks"},{"housing":false,"id":2,"name":"ModernTech"}]`
	if s := projectJSON(t, got); s != want {
		t.Errorf("projected = %s, want %s", s, want)
	}
}

func TestProjectSingleObject(t *testing.T) {
	row := projectRow{ID: 7, Name: "Devworks", Description: "text"}

	got := Project(row, []string{"description"})

	want := `{"description":"text","id":7}`
	if s := projectJSON(t, got); s != want {
		t.Errorf("projected = %s, want %s", s, want)
	}
}

func TestProjectNoFieldsPassesThrough(t *testing.T) {
	row := projectRow{ID: 7, Name: "Devworks"}
	if got := Project(row, nil); got.(projectRow) != row {
		t.Errorf("Project() with no fields changed the value: %+v", got)
	}
}

func TestProjectUnknownFieldSelectsNothingExtra(t *testing.T) {
	row := projectRow{ID: 7, Name: "Devworks"}

	got := Project(row, []string{"bogus"})

	want := `{"id":7}`
	if s := projectJSON(t, got); s != want {
		t.Errorf("projected = %s, want %s", s, want)
	}
}
