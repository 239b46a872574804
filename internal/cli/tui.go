package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/deck"
	"github.com/matzehuels/cardstack/pkg/render/sink"
)

// tuiCommand runs an interactive deck in the terminal.
func (c *CLI) tuiCommand() *cobra.Command {
	var items int

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Play with a deck in the terminal",
		Long: `Tui draws a portrait deck in the terminal. Drag with the mouse to scroll,
use the wheel or arrow keys to fling, and dismiss or add cards from the
keyboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			m := newDeckModel(cfg, items)
			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&items, "items", "n", 12, "initial number of cards")

	return cmd
}

// =============================================================================
// Key Map
// =============================================================================

type deckKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	Remove key.Binding
	Clear  key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newDeckKeyMap() deckKeyMap {
	return deckKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "fling back")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "fling forward")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add card")),
		Remove: key.NewBinding(key.WithKeys("x", "backspace"), key.WithHelp("x", "dismiss newest")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k deckKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Remove, k.Help, k.Quit}
}

func (k deckKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Add, k.Remove, k.Clear, k.Reset},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Model
// =============================================================================

// keyFlingVelocity is the fling speed of the arrow keys and the wheel.
const keyFlingVelocity = 2500

type frameMsg time.Time

// deckModel hosts a deck. All deck calls happen inside Update.
type deckModel struct {
	cfg   config.Config
	deck  *deck.Deck
	keys  deckKeyMap
	help  help.Model
	start time.Time
	now   func() time.Time

	width, height int // terminal size
	rows          int // lines used by the deck
	next          int // next generated card number
	initial       int
	status        string
}

func newDeckModel(cfg config.Config, items int) *deckModel {
	cfg.Deck.Orientation = deck.Portrait
	m := &deckModel{
		cfg:     cfg,
		keys:    newDeckKeyMap(),
		help:    help.New(),
		now:     time.Now,
		initial: items,
		rows:    24,
	}
	m.start = m.now()
	m.reset()
	return m
}

func (m *deckModel) reset() {
	m.deck = deck.New(m.cfg.Deck)
	m.deck.OnResize(m.cfg.Viewport.Width, m.cfg.Viewport.Height)
	handles := make([]deck.Handle, m.initial)
	for i := range handles {
		handles[i] = deck.Handle(fmt.Sprintf("card-%d", i+1))
	}
	m.next = m.initial + 1
	m.deck.OnItemsChanged(handles)
	m.deck.Tick(m.clock())
}

// clock is the deck time.
func (m *deckModel) clock() time.Duration {
	return m.now().Sub(m.start)
}

// toPos converts a terminal row inside the deck area to deck pixels.
func (m *deckModel) toPos(row int) float64 {
	row -= headerLines
	return (float64(row) + 0.5) * float64(m.cfg.Viewport.Height) / float64(m.rows)
}

func (m *deckModel) frameInterval() time.Duration {
	return time.Second / time.Duration(max(m.cfg.Render.FrameRate, 1))
}

func (m *deckModel) frame() tea.Cmd {
	return tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *deckModel) Init() tea.Cmd {
	return m.frame()
}

const (
	headerLines = 1 // text frame header
	footerLines = 3 // status and help
)

func (m *deckModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.rows = max(m.height-headerLines-footerLines, 4)
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		m.deck.Tick(m.clock())
		return m, m.frame()

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *deckModel) handleMouse(msg tea.MouseMsg) {
	now := m.clock()
	pos := m.toPos(msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.fling(keyFlingVelocity)
	case msg.Button == tea.MouseButtonWheelDown:
		m.fling(-keyFlingVelocity)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.deck.TouchDown(pos, now)
	case msg.Action == tea.MouseActionMotion:
		m.deck.TouchMove(pos, now)
	case msg.Action == tea.MouseActionRelease:
		if !m.deck.TouchUp(pos, now) {
			if h, ok := m.deck.ItemAt(pos); ok {
				m.status = "tapped " + string(h)
			}
		}
	}
}

func (m *deckModel) fling(v float64) {
	m.deck.Tick(m.clock())
	if !m.deck.Fling(v) {
		m.deck.SettleOverscroll()
	}
}

func (m *deckModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.fling(keyFlingVelocity)
	case key.Matches(msg, m.keys.Down):
		m.fling(-keyFlingVelocity)
	case key.Matches(msg, m.keys.Add):
		m.deck.Tick(m.clock())
		h := deck.Handle(fmt.Sprintf("card-%d", m.next))
		m.next++
		m.deck.AddItem(h)
		m.status = "added " + string(h)
	case key.Matches(msg, m.keys.Remove):
		handles := m.deck.Handles()
		if len(handles) > 0 {
			m.deck.Tick(m.clock())
			h := handles[len(handles)-1]
			m.deck.RemoveItem(h)
			m.status = "dismissed " + string(h)
		}
	case key.Matches(msg, m.keys.Clear):
		m.deck.Tick(m.clock())
		if m.deck.ClearAll() {
			m.status = "clearing"
		}
	case key.Matches(msg, m.keys.Reset):
		m.reset()
		m.status = "reset"
	}
	return m, nil
}

var tuiStatusStyle = lipgloss.NewStyle().Foreground(colorGray)

func (m *deckModel) View() string {
	scene := sink.Scene{
		Width:       m.cfg.Viewport.Width,
		Height:      m.cfg.Viewport.Height,
		CardPadding: m.cfg.Render.CardPadding,
	}
	width := 32
	if m.width > 0 {
		width = min(max(m.width-2, 8), 48)
	}
	body := sink.TextFrame(scene, m.deck.Snapshot(), sink.WithTextRows(m.rows), sink.WithTextWidth(width))

	status := fmt.Sprintf("%d cards", m.deck.Len())
	if m.status != "" {
		status += " · " + m.status
	}
	return body + "\n" + tuiStatusStyle.Render(status) + "\n" + m.help.View(m.keys)
}
