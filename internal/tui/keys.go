package tui

import "github.com/charmbracelet/bubbles/key"

type routeKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	NextPart key.Binding
	PrevPart key.Binding
	Resume   key.Binding
	Auto     key.Binding
	Theme    key.Binding
	Copy     key.Binding
	Map      key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newRouteKeyMap() routeKeyMap {
	return routeKeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "check / fold")),
		NextPart: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next part")),
		PrevPart: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev part")),
		Resume:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Auto:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-collapse")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy step")),
		Map:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "map")),
		Reset:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k routeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Resume, k.Auto, k.Map, k.Help, k.Quit}
}

func (k routeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPart, k.PrevPart},
		{k.Toggle, k.Resume, k.Auto, k.Copy},
		{k.Theme, k.Map, k.Reset, k.Help, k.Quit},
	}
}

type mapKeyMap struct {
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Slider  key.Binding
	Pan     key.Binding
	Center  key.Binding
	Close   key.Binding
}

func newMapKeyMap() mapKeyMap {
	return mapKeyMap{
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Slider:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "zoom level")),
		Pan:     key.NewBinding(key.WithKeys("up", "down", "left", "right", "h", "j", "k", "l"), key.WithHelp("←↑↓→", "pan")),
		Center:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "re-center")),
		Close:   key.NewBinding(key.WithKeys("esc", "m", "q"), key.WithHelp("esc", "close")),
	}
}

func (k mapKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Slider, k.Pan, k.Center, k.Close}
}

func (k mapKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
