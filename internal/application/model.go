package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/pgsync"
)

type screen int

const (
	screenMenu screen = iota
	screenOutput
	screenAdd
	screenLevelUp
	screenBusy
)

// Syncer copies a roster snapshot to a database.
type Syncer interface {
	Sync(ctx context.Context, file string, roster core.Roster) (pgsync.Result, error)
}

// Deps are the services the menu drives. Syncer may be nil.
type Deps struct {
	Service *core.Service
	Syncer  Syncer
}

// Model is the bubbletea model of the roster menu.
type Model struct {
	ctx   context.Context
	deps  Deps
	theme Theme

	menu   *Menu
	cursor int

	scr    screen
	title  string
	output string
	failed bool

	form    addForm
	listing string
	choice  textinput.Model
}

// NewModel builds the menu for deps.
func NewModel(ctx context.Context, deps Deps) Model {
	return Model{
		ctx:   ctx,
		deps:  deps,
		theme: DefaultTheme(),
		menu:  buildMenuTree(ctx, deps),
		scr:   screenMenu,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case outputMsg:
		m.showOutput(msg.title, msg.body, false)
		return m, nil

	case errMsg:
		m.showOutput(msg.title, describeError(msg.err), true)
		return m, nil

	case openAddFormMsg:
		m.scr = screenAdd
		m.form = newAddForm()
		return m, textinput.Blink

	case levelUpListMsg:
		m.scr = screenLevelUp
		m.listing = FormatSelectionList(msg.roster)
		m.choice = textinput.New()
		m.choice.Prompt = "Enter the number of the character to level up: "
		m.choice.CharLimit = 10
		m.choice.Focus()
		return m, textinput.Blink

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.scr {
		case screenMenu:
			return m.updateMenu(msg)
		case screenOutput:
			// Any key continues.
			m.scr = screenMenu
			return m, nil
		case screenAdd:
			return m.updateAdd(msg)
		case screenLevelUp:
			return m.updateLevelUp(msg)
		}
	}

	return m, nil
}

func (m *Model) showOutput(title, body string, failed bool) {
	m.scr = screenOutput
	m.title = title
	m.output = body
	m.failed = failed
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
	case "esc":
		if m.menu.Parent != nil {
			m.menu = m.menu.Parent
			m.cursor = 0
		}
	case "q":
		return m, tea.Quit
	case "enter":
		item := m.menu.Items[m.cursor]
		switch {
		case item.Submenu != nil:
			m.menu = item.Submenu
			m.cursor = 0
		case item.Label == "Back" && m.menu.Parent != nil:
			m.menu = m.menu.Parent
			m.cursor = 0
		case item.Action != nil:
			m.scr = screenBusy
			return m, item.Action()
		}
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.scr = screenMenu
		return m, nil
	case tea.KeyEnter:
		if m.form.submit() {
			m.scr = screenBusy
			return m, addCharacterCmd(m.ctx, m.deps.Service, m.form.character())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form.input, cmd = m.form.input.Update(msg)
	return m, cmd
}

func (m Model) updateLevelUp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.scr = screenMenu
		return m, nil
	case tea.KeyEnter:
		selection, err := core.ParseSelection(m.choice.Value())
		if err != nil {
			m.showOutput("Level Up Character", describeError(err), true)
			return m, nil
		}
		m.scr = screenBusy
		return m, levelUpCmd(m.ctx, m.deps.Service, selection)
	}

	var cmd tea.Cmd
	m.choice, cmd = m.choice.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("=== Character Roster ===") + "\n" +
		m.theme.Help.Render(m.deps.Service.Store().Path()) + "\n\n"

	switch m.scr {
	case screenMenu:
		var b strings.Builder
		b.WriteString(m.theme.Title.Render(m.menu.Title) + "\n\n")
		for i, item := range m.menu.Items {
			if i == m.cursor {
				b.WriteString(m.theme.Selected.Render("> "+item.Label) + "\n")
			} else {
				b.WriteString("  " + item.Label + "\n")
			}
		}
		help := m.theme.Help.Render("↑/↓ navigate • enter select • esc back • q quit")
		return wrap.Render(header + m.theme.Card.Render(b.String()) + "\n" + help)

	case screenOutput:
		body := m.output
		if m.failed {
			body = m.theme.Error.Render(body)
		}
		card := fmt.Sprintf("%s\n\n%s", m.theme.Title.Render("=== "+m.title+" ==="), body)
		return wrap.Render(header + m.theme.Card.Render(card) + "\n" + m.theme.Help.Render("Press any key to continue..."))

	case screenAdd:
		var b strings.Builder
		b.WriteString(m.theme.Title.Render("=== Add New Character ===") + "\n\n")
		b.WriteString(m.form.input.View() + "\n")
		if m.form.problem != "" {
			b.WriteString("\n" + m.theme.Error.Render(m.form.problem) + "\n")
		}
		return wrap.Render(header + b.String() + "\n" + m.theme.Help.Render("enter next • esc cancel"))

	case screenLevelUp:
		body := m.theme.Title.Render("=== Level Up Character ===") + "\n\n" + m.listing + "\n" + m.choice.View() + "\n"
		return wrap.Render(header + body + "\n" + m.theme.Help.Render("enter confirm • esc cancel"))

	case screenBusy:
		return wrap.Render(header + "Working...")

	default:
		return wrap.Render(header + "unknown state")
	}
}

var _ tea.Model = Model{}
