package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Amirkhon3223/first3d/pkg/catalog"
)

func testRecords() []catalog.Record {
	return []catalog.Record{
		{Name: "Chair", File: "chair.glb"},
		{Name: "Table", File: "table.glb"},
		{Name: "Lamp", File: "lamp.glb"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestViewListsRecords(t *testing.T) {
	m := NewModel(testRecords(), nil)
	view := m.View()

	for _, name := range []string{"Chair", "Table", "Lamp"} {
		if !strings.Contains(view, name) {
			t.Errorf("view missing %q", name)
		}
	}
}

func TestEnterSelectsRecord(t *testing.T) {
	m := NewModel(testRecords(), nil)

	next, _ := m.Update(key("j"))
	next, _ = next.(Model).Update(key("enter"))

	record, ok := next.(Model).Selected()
	if !ok {
		t.Fatal("no selection after enter")
	}
	if record.Name != "Table" || record.File != "table.glb" {
		t.Errorf("selected = %+v, want Table", record)
	}
}

func TestSingleEntryCatalog(t *testing.T) {
	m := NewModel([]catalog.Record{{Name: "Chair", File: "chair.glb"}}, nil)

	next, _ := m.Update(key("enter"))
	record, ok := next.(Model).Selected()
	if !ok {
		t.Fatal("no selection")
	}
	if record.File != "chair.glb" {
		t.Errorf("selected file = %q, want chair.glb", record.File)
	}
}

func TestQuitWithoutSelection(t *testing.T) {
	m := NewModel(testRecords(), nil)

	next, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := next.(Model).Selected(); ok {
		t.Error("quit produced a selection")
	}
}

func TestSearchFilters(t *testing.T) {
	m := NewModel(testRecords(), nil)

	next, _ := m.Update(key("/"))
	next, _ = next.(Model).Update(key("l"))
	next, _ = next.(Model).Update(key("a"))
	next, _ = next.(Model).Update(key("m"))
	next, _ = next.(Model).Update(key("p"))

	mm := next.(Model)
	if len(mm.filtered) != 1 || mm.filtered[0].Name != "Lamp" {
		t.Errorf("filtered = %+v, want only Lamp", mm.filtered)
	}

	// Enter leaves search mode; a second enter selects the match.
	next, _ = mm.Update(key("enter"))
	next, _ = next.(Model).Update(key("enter"))
	record, ok := next.(Model).Selected()
	if !ok || record.Name != "Lamp" {
		t.Errorf("selected = %+v, want Lamp", record)
	}
}

func TestEmptyCatalogEnterIsNoop(t *testing.T) {
	m := NewModel(nil, nil)

	next, cmd := m.Update(key("enter"))
	if cmd != nil {
		t.Error("enter on empty catalog produced a command")
	}
	if _, ok := next.(Model).Selected(); ok {
		t.Error("enter on empty catalog produced a selection")
	}
}

func TestLoadErrorBanner(t *testing.T) {
	m := NewModel(nil, errors.New("connection refused"))
	view := m.View()

	if !strings.Contains(view, "catalog unavailable") {
		t.Error("view missing error banner")
	}
	if !strings.Contains(view, "connection refused") {
		t.Error("view missing error cause")
	}
}

func TestCursorClamped(t *testing.T) {
	m := NewModel(testRecords(), nil)

	// Walk past the end; the cursor stays on the last record.
	var model tea.Model = m
	for range 10 {
		model, _ = model.(Model).Update(key("j"))
	}
	next, _ := model.(Model).Update(key("enter"))
	record, ok := next.(Model).Selected()
	if !ok || record.Name != "Lamp" {
		t.Errorf("selected = %+v, want last record Lamp", record)
	}
}
