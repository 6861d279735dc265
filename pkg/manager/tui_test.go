package manager

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTUIFixture(t *testing.T, profiles []Profile) (model, *Store) {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "connections.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	doc := NewDocument()
	doc.Connections = profiles
	if err := store.Save(doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	m := newModel(store, NewSSHConfigParser(""), "", UIOptions{Theme: NoTheme(), ConfirmDelete: true})
	return m, store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEnterSelectsCurrentProfile(t *testing.T) {
	m, _ := newTUIFixture(t, []Profile{
		{Name: "alpha", Hostname: "h1", Port: 22},
		{Name: "bravo", Hostname: "h2", Port: 22},
	})

	m.selected = 1
	next, _ := m.updateList(key("enter"))
	got := next.(model)
	if got.result == nil || got.result.Name != "bravo" {
		t.Fatalf("expected bravo selected, got %+v", got.result)
	}
	if !got.quitting {
		t.Fatalf("selection must quit the TUI")
	}
}

func TestFilteredDeleteHitsCanonicalIndex(t *testing.T) {
	m, store := newTUIFixture(t, []Profile{
		{Name: "alpha", Hostname: "h1", Port: 22},
		{Name: "bravo", Hostname: "h2", Port: 22},
		{Name: "charlie", Hostname: "h3", Port: 22},
	})

	// Filter down to charlie only; the visible row is position 0 but the
	// store index is 2.
	m.search.SetValue("charlie")
	m.recomputeFilter()
	m.selected = 0
	m.opts.ConfirmDelete = false

	next, _ := m.updateList(key("ctrl+d"))
	_ = next

	got := store.List()
	if len(got) != 2 || got[0].Name != "alpha" || got[1].Name != "bravo" {
		t.Fatalf("wrong profile deleted, remaining: %v", got)
	}
}

func TestDeleteConfirmationCancel(t *testing.T) {
	m, store := newTUIFixture(t, []Profile{{Name: "alpha", Hostname: "h1", Port: 22}})

	next, _ := m.updateList(key("ctrl+d"))
	got := next.(model)
	if got.mode != modeConfirmDelete || got.deleteName != "alpha" {
		t.Fatalf("expected confirmation modal, got mode=%d name=%q", got.mode, got.deleteName)
	}

	next, _ = got.updateConfirmDelete(key("n"))
	got = next.(model)
	if got.mode != modeList {
		t.Fatalf("cancel should return to the list")
	}
	if len(store.List()) != 1 {
		t.Fatalf("cancel must not delete")
	}
}

func TestFormAddValidatesAndPersists(t *testing.T) {
	m, store := newTUIFixture(t, nil)

	m.openForm(nil, -1)
	m.formInputs[fieldName].SetValue("new-box")
	m.formInputs[fieldHostname].SetValue("10.9.8.7")
	m.formInputs[fieldPort].SetValue("not-a-port")

	next, _ := m.saveForm()
	got := next.(model)
	if got.formErr == "" {
		t.Fatalf("expected a validation error for a bad port")
	}
	if got.mode != modeForm {
		t.Fatalf("validation failure must keep the form open")
	}

	got.formInputs[fieldPort].SetValue("2222")
	next, _ = got.saveForm()
	got = next.(model)
	if got.mode != modeList {
		t.Fatalf("save should close the form")
	}

	saved := store.List()
	if len(saved) != 1 || saved[0].Name != "new-box" || saved[0].Port != 2222 {
		t.Fatalf("got %v", saved)
	}
}

func TestFormEditUpdatesInPlace(t *testing.T) {
	m, store := newTUIFixture(t, []Profile{
		{Name: "alpha", Hostname: "h1", Port: 22},
		{Name: "bravo", Hostname: "h2", Port: 22},
	})

	p := store.List()[1]
	m.openForm(&p, 1)
	if m.formInputs[fieldName].Value() != "bravo" {
		t.Fatalf("form should be prefilled, got %q", m.formInputs[fieldName].Value())
	}
	m.formInputs[fieldHostname].SetValue("new-host")

	next, _ := m.saveForm()
	_ = next

	saved := store.List()
	if saved[1].Hostname != "new-host" {
		t.Fatalf("got %+v", saved[1])
	}
	if saved[0].Hostname != "h1" {
		t.Fatalf("other entries must be untouched, got %+v", saved[0])
	}
}

func TestImportPickerReconciles(t *testing.T) {
	m, store := newTUIFixture(t, []Profile{{Name: "existing", Hostname: "h", Port: 22}})

	m.importProfiles = []Profile{
		{Name: "existing", Hostname: "other", Port: 22},
		{Name: "fresh", Hostname: "10.0.0.9", Port: 22},
	}
	m.importSelected = map[int]struct{}{0: {}, 1: {}}
	m.mode = modeImport

	next, _ := m.updateImport(key("enter"))
	got := next.(model)
	if got.mode != modeList {
		t.Fatalf("import should return to the list")
	}

	saved := store.List()
	if len(saved) != 2 {
		t.Fatalf("expected 2 profiles after import, got %v", saved)
	}
	// The existing profile keeps its original hostname.
	if saved[0].Hostname != "h" {
		t.Fatalf("existing entry was overwritten: %+v", saved[0])
	}
	if saved[1].Name != "fresh" {
		t.Fatalf("got %+v", saved[1])
	}
}

func TestImportSelectAll(t *testing.T) {
	m, _ := newTUIFixture(t, nil)
	m.importProfiles = []Profile{
		{Name: "a", Hostname: "h", Port: 22},
		{Name: "b", Hostname: "h", Port: 22},
	}
	m.importSelected = map[int]struct{}{}
	m.mode = modeImport

	next, _ := m.updateImport(key("a"))
	got := next.(model)
	if len(got.importSelected) != 2 {
		t.Fatalf("select all should mark every row, got %d", len(got.importSelected))
	}
}

func TestEscClearsSearchThenQuits(t *testing.T) {
	m, _ := newTUIFixture(t, []Profile{{Name: "alpha", Hostname: "h", Port: 22}})

	m.search.SetValue("alp")
	m.recomputeFilter()

	next, _ := m.updateList(key("esc"))
	got := next.(model)
	if got.search.Value() != "" {
		t.Fatalf("first esc should clear the search")
	}
	if got.quitting {
		t.Fatalf("first esc must not quit")
	}

	next, _ = got.updateList(key("esc"))
	got = next.(model)
	if !got.quitting {
		t.Fatalf("esc on an empty search should quit")
	}
}
