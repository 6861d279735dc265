package manager

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RunTUI launches the interactive profile selector. It returns the
// profile the user chose to connect to, or nil if the user quit without
// selecting. Store mutations (add/edit/delete/import) happen inside the
// TUI; launching ssh is the caller's job.
func RunTUI(store *Store, parser *SSHConfigParser, sshConfigPath string, opts UIOptions) (*Profile, error) {
	if store == nil {
		return nil, fmt.Errorf("nil store")
	}
	m := newModel(store, parser, sshConfigPath, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(model); ok {
		return fm.result, nil
	}
	return nil, nil
}

type uiMode int

const (
	modeList uiMode = iota
	modeForm
	modeConfirmDelete
	modeImport
)

// formField indices, in display order.
const (
	fieldName = iota
	fieldHostname
	fieldUser
	fieldPort
	fieldIdentity
	formFieldCount
)

type model struct {
	store         *Store
	parser        *SSHConfigParser
	sshConfigPath string
	opts          UIOptions
	theme         Theme

	mode uiMode

	// List view: search input plus ranked candidates. The search input
	// stays focused so typing immediately filters.
	search     textinput.Model
	candidates []candidate
	filtered   []candidate
	selected   int
	scroll     int

	// Form modal (add/edit). formEditIndex is the canonical store index
	// being edited, or -1 when adding.
	formInputs    [formFieldCount]textinput.Model
	formFieldSel  int
	formEditIndex int
	formErr       string

	// Delete confirmation modal.
	deleteIndex int
	deleteName  string

	// Import picker modal.
	importProfiles []Profile
	importSelected map[int]struct{}
	importCursor   int
	importScroll   int

	status      string
	statusUntil time.Time

	width    int
	height   int
	ready    bool
	quitting bool

	// result is the profile chosen for connection, if any.
	result *Profile
}

func newModel(store *Store, parser *SSHConfigParser, sshConfigPath string, opts UIOptions) model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search..."
	ti.CharLimit = 256
	ti.SetValue(strings.TrimSpace(opts.InitialQuery))
	ti.Focus()

	m := model{
		store:         store,
		parser:        parser,
		sshConfigPath: sshConfigPath,
		opts:          opts,
		theme:         opts.Theme,
		search:        ti,
		formEditIndex: -1,
		deleteIndex:   -1,
	}
	m.reloadFromStore()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// reloadFromStore refreshes candidates from the persisted document and
// re-applies the current filter.
func (m *model) reloadFromStore() {
	m.candidates = buildCandidates(m.store.List())
	m.recomputeFilter()
}

func (m *model) recomputeFilter() {
	m.filtered = rankMatches(m.candidates, m.search.Value())
	if m.selected >= len(m.filtered) {
		m.selected = len(m.filtered) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// current returns the candidate under the cursor, or nil when the
// filtered list is empty. The candidate carries its canonical store
// index, so callers never pass a filtered-row position to the store.
func (m *model) current() *candidate {
	if len(m.filtered) == 0 || m.selected < 0 || m.selected >= len(m.filtered) {
		return nil
	}
	return &m.filtered[m.selected]
}

func (m *model) setStatus(s string, ms int) {
	m.status = s
	m.statusUntil = time.Now().Add(time.Duration(ms) * time.Millisecond)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeImport:
			return m.updateImport(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

// ----- list mode -----

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Esc clears the search; a second Esc on an empty search quits.
		if strings.TrimSpace(m.search.Value()) != "" {
			m.search.SetValue("")
			m.recomputeFilter()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "up", "ctrl+p":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.selected < len(m.filtered)-1 {
			m.selected++
		}
		return m, nil

	case "enter":
		sel := m.current()
		if sel == nil {
			m.setStatus("no profile selected", 1500)
			return m, nil
		}
		p := sel.Profile
		m.result = &p
		m.quitting = true
		return m, tea.Quit

	case "ctrl+a":
		m.openForm(nil, -1)
		return m, nil

	case "ctrl+e":
		sel := m.current()
		if sel == nil {
			m.setStatus("no profile selected", 1500)
			return m, nil
		}
		p := sel.Profile
		m.openForm(&p, sel.StoreIndex)
		return m, nil

	case "ctrl+d":
		sel := m.current()
		if sel == nil {
			m.setStatus("no profile selected", 1500)
			return m, nil
		}
		if !m.opts.ConfirmDelete {
			name := sel.Profile.Name
			if err := m.store.Delete(sel.StoreIndex); err != nil {
				m.setStatus(fmt.Sprintf("delete failed: %v", err), 3500)
				return m, nil
			}
			m.reloadFromStore()
			m.setStatus(fmt.Sprintf("deleted '%s'", name), 2000)
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.deleteIndex = sel.StoreIndex
		m.deleteName = sel.Profile.Name
		return m, nil

	case "ctrl+o":
		m.openImport()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.recomputeFilter()
	return m, cmd
}

// ----- form modal -----

var formLabels = [formFieldCount]string{"Name", "Hostname", "User", "Port", "Identity File"}

func (m *model) openForm(p *Profile, storeIndex int) {
	for i := range m.formInputs {
		ti := textinput.New()
		ti.CharLimit = 256
		m.formInputs[i] = ti
	}
	m.formInputs[fieldName].Placeholder = "e.g. my-server"
	m.formInputs[fieldHostname].Placeholder = "e.g. 192.168.1.100"
	m.formInputs[fieldUser].Placeholder = "e.g. root"
	m.formInputs[fieldPort].Placeholder = "22"
	m.formInputs[fieldIdentity].Placeholder = "e.g. ~/.ssh/id_ed25519"

	if p != nil {
		m.formInputs[fieldName].SetValue(p.Name)
		m.formInputs[fieldHostname].SetValue(p.Hostname)
		m.formInputs[fieldUser].SetValue(p.User)
		m.formInputs[fieldPort].SetValue(strconv.Itoa(p.Port))
		m.formInputs[fieldIdentity].SetValue(p.IdentityFile)
	}

	m.mode = modeForm
	m.formEditIndex = storeIndex
	m.formFieldSel = 0
	m.formErr = ""
	m.formInputs[0].Focus()
}

func (m *model) closeForm() {
	m.mode = modeList
	m.formEditIndex = -1
	m.formFieldSel = 0
	m.formErr = ""
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.setStatus("cancelled", 1200)
		return m, nil

	case "tab", "enter":
		// Enter on the last field saves; otherwise advance.
		if msg.String() == "tab" || m.formFieldSel < formFieldCount-1 {
			if m.formFieldSel < formFieldCount-1 {
				m.formFieldSel++
			} else {
				m.formFieldSel = 0
			}
		} else {
			return m.saveForm()
		}

	case "shift+tab", "up":
		if m.formFieldSel > 0 {
			m.formFieldSel--
		}

	case "down":
		if m.formFieldSel < formFieldCount-1 {
			m.formFieldSel++
		}

	default:
		var cmd tea.Cmd
		m.focusFormField()
		m.formInputs[m.formFieldSel], cmd = m.formInputs[m.formFieldSel].Update(msg)
		return m, cmd
	}

	m.focusFormField()
	return m, nil
}

func (m *model) focusFormField() {
	for i := range m.formInputs {
		if i == m.formFieldSel {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m model) saveForm() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.formInputs[fieldName].Value())
	hostname := strings.TrimSpace(m.formInputs[fieldHostname].Value())
	user := strings.TrimSpace(m.formInputs[fieldUser].Value())
	portStr := strings.TrimSpace(m.formInputs[fieldPort].Value())
	identity := strings.TrimSpace(m.formInputs[fieldIdentity].Value())

	port := DefaultSSHPort
	if portStr != "" {
		n, err := strconv.Atoi(portStr)
		if err != nil {
			m.formErr = "invalid port number"
			return m, nil
		}
		port = n
	}

	p, err := NewProfile(name, hostname, user, port, identity)
	if err != nil {
		m.formErr = err.Error()
		return m, nil
	}

	editing := m.formEditIndex >= 0
	if editing {
		err = m.store.Update(m.formEditIndex, p)
	} else {
		err = m.store.Add(p)
	}
	if err != nil {
		m.formErr = err.Error()
		return m, nil
	}

	m.closeForm()
	m.reloadFromStore()
	if editing {
		m.setStatus(fmt.Sprintf("updated '%s'", p.Name), 2000)
	} else {
		m.setStatus(fmt.Sprintf("added '%s'", p.Name), 2000)
	}
	return m, nil
}

// ----- delete confirmation modal -----

func (m model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		name := m.deleteName
		if err := m.store.Delete(m.deleteIndex); err != nil {
			m.setStatus(fmt.Sprintf("delete failed: %v", err), 3500)
		} else {
			m.setStatus(fmt.Sprintf("deleted '%s'", name), 2000)
		}
		m.mode = modeList
		m.deleteIndex = -1
		m.deleteName = ""
		m.reloadFromStore()
		return m, nil

	case "n", "esc", "q":
		m.mode = modeList
		m.deleteIndex = -1
		m.deleteName = ""
		m.setStatus("delete cancelled", 1200)
		return m, nil
	}
	return m, nil
}

// ----- import picker modal -----

func (m *model) openImport() {
	var parsed []Profile
	if m.parser != nil {
		parsed = m.parser.ParseFile(m.sshConfigPath)
	}
	m.importProfiles = parsed
	m.importSelected = make(map[int]struct{})
	m.importCursor = 0
	m.importScroll = 0
	m.mode = modeImport
}

func (m model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeList
		m.setStatus("import cancelled", 1200)
		return m, nil

	case "up", "k":
		if m.importCursor > 0 {
			m.importCursor--
		}
		return m, nil

	case "down", "j":
		if m.importCursor < len(m.importProfiles)-1 {
			m.importCursor++
		}
		return m, nil

	case " ":
		if len(m.importProfiles) == 0 {
			return m, nil
		}
		if _, on := m.importSelected[m.importCursor]; on {
			delete(m.importSelected, m.importCursor)
		} else {
			m.importSelected[m.importCursor] = struct{}{}
		}
		return m, nil

	case "a":
		for i := range m.importProfiles {
			m.importSelected[i] = struct{}{}
		}
		return m, nil

	case "enter":
		selected := make([]Profile, 0, len(m.importSelected))
		for i, p := range m.importProfiles {
			if _, on := m.importSelected[i]; on {
				selected = append(selected, p)
			}
		}
		m.mode = modeList
		if len(selected) == 0 {
			m.setStatus("nothing selected to import", 1500)
			return m, nil
		}
		doc, added := Reconcile(selected, m.store.Load())
		if err := m.store.Save(doc); err != nil {
			m.setStatus(fmt.Sprintf("import failed: %v", err), 3500)
			return m, nil
		}
		m.reloadFromStore()
		m.setStatus(fmt.Sprintf("imported %d connection(s)", added), 2500)
		return m, nil
	}
	return m, nil
}

// ----- rendering -----

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	switch m.mode {
	case modeForm:
		return m.viewForm()
	case modeConfirmDelete:
		return m.viewConfirmDelete()
	case modeImport:
		return m.viewImport()
	}
	return m.viewList()
}

func (m model) viewList() string {
	var b strings.Builder
	t := m.theme

	b.WriteString(t.Header.Render("sshman · SSH Connection Manager"))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		if len(m.candidates) == 0 {
			b.WriteString(t.Dim.Render("No connections yet. Ctrl+A to add, Ctrl+O to import from ssh config."))
		} else {
			b.WriteString(t.Dim.Render("No connections match your search."))
		}
		b.WriteString("\n")
	} else {
		// Visible window: header/search/help take ~7 rows.
		visible := m.height - 7
		if visible < 3 {
			visible = 3
		}
		scroll := m.scroll
		if m.selected < scroll {
			scroll = m.selected
		}
		if m.selected >= scroll+visible {
			scroll = m.selected - visible + 1
		}
		end := scroll + visible
		if end > len(m.filtered) {
			end = len(m.filtered)
		}
		for i := scroll; i < end; i++ {
			c := m.filtered[i]
			line := formatProfileLine(c.Profile)
			if i == m.selected {
				b.WriteString(t.SelectedPrefix(true))
				b.WriteString(t.Selected.Render(line))
			} else {
				b.WriteString(t.SelectedPrefix(false))
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" && time.Now().Before(m.statusUntil) {
		b.WriteString(t.Accent.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(t.Help.Render("enter connect · ctrl+a add · ctrl+e edit · ctrl+d delete · ctrl+o import · esc clear/quit"))
	b.WriteString("\n")
	return b.String()
}

func (m model) viewForm() string {
	var b strings.Builder
	t := m.theme

	title := "Add Connection"
	if m.formEditIndex >= 0 {
		title = "Edit Connection"
	}
	b.WriteString(t.Header.Render(title))
	b.WriteString("\n\n")

	for i := range m.formInputs {
		label := fmt.Sprintf("%-14s", formLabels[i]+":")
		if i == m.formFieldSel {
			b.WriteString(t.Selected.Render("> " + label))
		} else {
			b.WriteString(t.Dim.Render("  " + label))
		}
		b.WriteString(m.formInputs[i].View())
		b.WriteString("\n")
	}

	if m.formErr != "" {
		b.WriteString("\n")
		b.WriteString(t.Error.Render(m.formErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(t.Help.Render("tab/↓ next · shift+tab/↑ prev · enter on last field saves · esc cancel"))
	b.WriteString("\n")
	return t.ModalEdge.Render(b.String())
}

func (m model) viewConfirmDelete() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Header.Render("Delete Connection"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Delete '%s'?\n\n", m.deleteName))
	b.WriteString(t.Help.Render("y/enter delete · n/esc cancel"))
	b.WriteString("\n")
	return t.ModalEdge.Render(b.String())
}

func (m model) viewImport() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.Header.Render("Import from ssh config"))
	b.WriteString("\n")
	b.WriteString(t.Dim.Render(m.sshConfigPath))
	b.WriteString("\n\n")

	if len(m.importProfiles) == 0 {
		b.WriteString(t.Dim.Render("No importable host entries found."))
		b.WriteString("\n\n")
		b.WriteString(t.Help.Render("esc close"))
		b.WriteString("\n")
		return t.ModalEdge.Render(b.String())
	}

	visible := m.height - 9
	if visible < 3 {
		visible = 3
	}
	scroll := m.importScroll
	if m.importCursor < scroll {
		scroll = m.importCursor
	}
	if m.importCursor >= scroll+visible {
		scroll = m.importCursor - visible + 1
	}
	end := scroll + visible
	if end > len(m.importProfiles) {
		end = len(m.importProfiles)
	}

	for i := scroll; i < end; i++ {
		p := m.importProfiles[i]
		_, on := m.importSelected[i]
		line := fmt.Sprintf("%s %s  %s", t.CheckboxMark(on), p.Name, t.Dim.Render(p.DisplayTarget()))
		if i == m.importCursor {
			b.WriteString(t.SelectedPrefix(true))
		} else {
			b.WriteString(t.SelectedPrefix(false))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.Help.Render("space toggle · a select all · enter import selected · esc cancel"))
	b.WriteString("\n")
	return t.ModalEdge.Render(b.String())
}
