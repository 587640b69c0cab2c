package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Up         key.Binding
	Down       key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
	SelectPage key.Binding
	Bigger     key.Binding
	Smaller    key.Binding
	Open       key.Binding
	Navigate   key.Binding
	New        key.Binding
	Search     key.Binding
	Status     key.Binding
	Candidates key.Binding
	Clear      key.Binding
	Reset      key.Binding
	Back       key.Binding
	Cycle      key.Binding
	Save       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev page")),
		NextPage:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next page")),
		SelectPage: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump to page")),
		Bigger:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "page size")),
		Smaller:    key.NewBinding(key.WithKeys("-")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Navigate:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open record page")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new candidate")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Status:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		Candidates: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "candidates")),
		Clear:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filter")),
		Reset:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset database")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Cycle:      key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("←/→", "choose field set")),
		Save:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	}
}

// ShortHelp implements help.KeyMap for the list screens.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevPage, k.NextPage, k.SelectPage, k.Bigger, k.Open, k.Search, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Up, k.Down},
		{k.PrevPage, k.NextPage, k.SelectPage, k.Bigger},
		{k.Open, k.Navigate, k.New, k.Search, k.Status, k.Candidates, k.Clear},
		{k.Reset, k.Back, k.Quit},
	}
}
