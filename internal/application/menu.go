package application

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/roster/internal/core"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MESSAGES
---------------------------------------- */

// outputMsg replaces the screen with a titled block of text.
type outputMsg struct {
	title string
	body  string
}

// errMsg reports a failed action.
type errMsg struct {
	title string
	err   error
}

// openAddFormMsg switches to the add form.
type openAddFormMsg struct{}

// levelUpListMsg carries the roster to choose a level-up target from.
type levelUpListMsg struct {
	roster core.Roster
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

func buildMenuTree(ctx context.Context, deps Deps) *Menu {
	items := []MenuItem{
		{Label: "Display All Characters", Action: displayAction(ctx, deps.Service)},
		{Label: "Add New Character", Action: func() tea.Cmd {
			return func() tea.Msg { return openAddFormMsg{} }
		}},
		{Label: "Level Up Character", Action: levelUpListAction(ctx, deps.Service)},
	}

	if deps.Syncer != nil {
		items = append(items, MenuItem{Label: "Database ->", Submenu: loadDatabaseMenu(ctx, deps)})
	}

	items = append(items, MenuItem{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }})

	root := &Menu{
		Title: "Main Menu",
		Items: items,
	}

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

func loadDatabaseMenu(ctx context.Context, deps Deps) *Menu {
	return &Menu{
		Title: "Database",
		Items: []MenuItem{
			{Label: "Sync to Database", Action: syncAction(ctx, deps)},
			{Label: "Back"},
		},
	}
}

/* ----------------------------------------
	ACTIONS
---------------------------------------- */

func displayAction(ctx context.Context, svc *core.Service) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			const title = "All Characters"
			roster, err := svc.List(ctx)
			if err != nil {
				return errMsg{title: title, err: err}
			}
			return outputMsg{title: title, body: FormatRoster(roster)}
		}
	}
}

func levelUpListAction(ctx context.Context, svc *core.Service) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			roster, err := svc.List(ctx)
			if err == nil && roster.Len() == 0 {
				err = core.ErrNoCharacters
			}
			if err != nil {
				return errMsg{title: "Level Up Character", err: err}
			}
			return levelUpListMsg{roster: roster}
		}
	}
}

func syncAction(ctx context.Context, deps Deps) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			const title = "Sync to Database"
			if deps.Syncer == nil {
				return errMsg{title: title, err: core.ErrDatabaseNotConfigured}
			}
			roster, err := deps.Service.List(ctx)
			if err != nil {
				return errMsg{title: title, err: err}
			}
			result, err := deps.Syncer.Sync(ctx, deps.Service.Store().Path(), roster)
			if err != nil {
				return errMsg{title: title, err: err}
			}
			return outputMsg{title: title, body: FormatSync(result)}
		}
	}
}

func addCharacterCmd(ctx context.Context, svc *core.Service, in core.NewCharacter) tea.Cmd {
	return func() tea.Msg {
		const title = "Add New Character"
		if _, err := svc.Add(ctx, in); err != nil {
			return errMsg{title: title, err: err}
		}
		return outputMsg{title: title, body: "Character added."}
	}
}

func levelUpCmd(ctx context.Context, svc *core.Service, selection int) tea.Cmd {
	return func() tea.Msg {
		const title = "Level Up Character"
		result, err := svc.LevelUp(ctx, selection)
		if err != nil {
			return errMsg{title: title, err: err}
		}
		return outputMsg{title: title, body: FormatLevelUp(result)}
	}
}

// describeError renders an action error for the output screen.
func describeError(err error) string {
	if errors.Is(err, core.ErrInvalidSelection) {
		return "Invalid input. Please enter a number."
	}
	return core.FormatUserError(err)
}
