// Package tui is the terminal surface: a bubbletea program that shows the
// markup the binder mounts and turns key presses into the same clicks and
// submissions a browser would send.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/dom"
	"github.com/Makepad-fr/tada/internal/surface"
)

// rowItem adapts a rendered row to bubbles/list.Item
type rowItem struct {
	container surface.Container
	row       dom.Row
}

func (i rowItem) Title() string       { return i.row.Input.Value }
func (i rowItem) Description() string { return "" }
func (i rowItem) FilterValue() string { return i.row.Input.Value }

func (i rowItem) finished() bool { return i.container == surface.FinishedList }

type rowDelegate struct {
	surface *Surface
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	title := it.row.Input.Value
	if v, ok := d.surface.InputValue(it.row.Input.ID); ok {
		title = v
	}
	width := m.Width() - 6
	if width < 8 {
		width = 8
	}
	title = ansi.Truncate(title, width, "…")

	box := mutedStyle.Render(boxUnchecked)
	text := title
	switch {
	case it.finished():
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(title)
	case !it.row.Input.ReadOnly:
		box = pendingStyle.Render(markEditable)
		text = editingStyle.Render(title)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

type mode int

const (
	browsing mode = iota
	adding
	typing
)

// Model is the bubbletea model of the terminal surface.
type Model struct {
	ctx     context.Context
	surface *Surface
	boot    func(context.Context)
	keys    keyMap

	active   dom.Fragment
	finished dom.Fragment
	list     list.Model

	mode     mode
	ti       textinput.Model
	typingID string
	status   string

	width, height int
}

// New creates the model. boot runs once the program starts, typically the
// binder's Bootstrap.
func New(ctx context.Context, s *Surface, boot func(context.Context)) Model {
	keys := defaultKeys()
	l := list.New(nil, rowDelegate{surface: s}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		ctx:     ctx,
		surface: s,
		boot:    boot,
		keys:    keys,
		list:    l,
		ti:      ti,
		width:   80,
		height:  24,
	}
	m.list.Title = m.header()
	m.list.SetSize(m.width-4, m.listHeight())
	return m
}

func (m Model) Init() tea.Cmd {
	if m.boot == nil {
		return nil
	}
	return func() tea.Msg {
		m.boot(m.ctx)
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.width-4, m.listHeight())
		return m, nil

	case mountMsg:
		return m.mount(msg)

	case alertMsg:
		m.status = msg.text
		return m, nil

	case clearFormMsg:
		if m.mode == adding {
			m.leaveInput()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case adding:
			return m.updateAdding(msg)
		case typing:
			return m.updateTyping(msg)
		}
		return m.updateBrowsing(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) mount(msg mountMsg) (tea.Model, tea.Cmd) {
	if msg.container == surface.FinishedList {
		m.finished = msg.fragment
	} else {
		m.active = msg.fragment
	}

	var items []list.Item
	for _, row := range m.active.Rows {
		items = append(items, rowItem{container: surface.ActiveList, row: row})
	}
	for _, row := range m.finished.Rows {
		items = append(items, rowItem{container: surface.FinishedList, row: row})
	}
	cmd := m.list.SetItems(items)
	m.list.Title = m.header()

	if m.mode == typing {
		if el, ok := m.active.Element(m.typingID); !ok || el.ReadOnly {
			m.leaveInput()
		}
	}
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "a":
		m.status = ""
		m.mode = adding
		m.ti.SetValue("")
		m.ti.Placeholder = "New task title..."
		m.ti.Focus()
		return m, textinput.Blink
	case "e":
		cmd := m.clickControl(surface.ClassEdit)
		return m, cmd
	case "d":
		cmd := m.clickControl(surface.ClassDelete)
		return m, cmd
	case " ":
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.status = ""
		return m, m.surface.click(m.ctx, it.container, it.row.Input.Target())
	case "i":
		it, ok := m.selected()
		if !ok || it.row.Input.ReadOnly {
			return m, nil
		}
		m.mode = typing
		m.typingID = it.row.Input.ID
		v, _ := m.surface.InputValue(m.typingID)
		m.ti.SetValue(v)
		m.ti.CursorEnd()
		m.ti.Placeholder = "Task title..."
		m.ti.Focus()
		return m, textinput.Blink
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// the input stays open until the binder clears the form
		return m, m.surface.submitTitle(m.ctx, m.ti.Value())
	case "esc":
		m.leaveInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.leaveInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.surface.Type(m.typingID, m.ti.Value())
	return m, cmd
}

func (m *Model) leaveInput() {
	m.mode = browsing
	m.typingID = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) selected() (rowItem, bool) {
	it, ok := m.list.SelectedItem().(rowItem)
	return it, ok
}

func (m *Model) clickControl(class string) tea.Cmd {
	it, ok := m.selected()
	if !ok {
		return nil
	}
	btn, ok := it.row.Control(class)
	if !ok {
		return nil
	}
	m.status = ""
	return m.surface.click(m.ctx, it.container, btn.Target())
}

func (m Model) header() string {
	done, active := len(m.finished.Rows), len(m.active.Rows)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), active,
		accentStyle.Render("Total"), done+active,
	)
}

func (m Model) listHeight() int {
	h := m.height - 6
	if m.mode != browsing {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) View() string {
	m.list.SetSize(m.width-4, m.listHeight())

	var b strings.Builder
	if len(m.active.Rows) == 0 && strings.TrimSpace(m.active.Text) != "" {
		b.WriteString(mutedStyle.Render(m.active.Text))
		b.WriteByte('\n')
	}
	b.WriteString(m.list.View())

	if m.mode != browsing {
		label := "Add new task"
		if m.mode == typing {
			label = "Edit title (enter, then e to save)"
		}
		b.WriteByte('\n')
		b.WriteString(frameStyle.Render(label + "\n" + m.ti.View()))
	}
	if m.status != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("✖ " + m.status))
	}
	return frameStyle.Render(b.String())
}

// Status is the last alert shown.
func (m Model) Status() string { return m.status }

// Run starts the program on the terminal and blocks until the user quits or
// ctx is done.
func Run(ctx context.Context, s *Surface, boot func(context.Context), opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(ctx, s, boot), opts...)
	s.Attach(p.Send)
	_, err := p.Run()
	return err
}
