package tui

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/tui-dungeon/internal/config"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/storage"
)

// floorGlyphs are the atlas frames drawn for floor tiles.
var floorGlyphs = []rune{'.', ',', ':', '\''}

// Layout rows reserved outside the map.
const (
	hudRows  = 1
	helpRows = 1
)

// mapScreenHeight is the screen buffer height left after the help line. The
// framed map keeps at least one interior row.
func mapScreenHeight(termH int) int {
	return max(termH-helpRows, hudRows+3)
}

// ExplorerOptions configures an explorer session.
type ExplorerOptions struct {
	Config  config.DungeonConfig
	Runtime core.RuntimeConfig
	Store   *storage.Store // Optional; sessions are not saved when nil
	Player  string
	Logger  *log.Logger
}

// sessionStats tracks one exploration run. It is shared between model copies.
type sessionStats struct {
	seen    mapset.Set[uint32]
	moves   int
	started time.Time
	saved   bool
}

func newSessionStats() *sessionStats {
	return &sessionStats{seen: mapset.New[uint32](), started: time.Now()}
}

// Model is the Bubble Tea model for exploring a dungeon.
type Model struct {
	cfg      config.DungeonConfig
	runtime  core.RuntimeConfig
	dungeon  *dungeon.Dungeon
	viewport dungeon.Viewport
	collider *dungeon.Collider
	camera   *dungeon.Camera
	screen   *core.Screen
	store    *storage.Store
	logger   *log.Logger
	player   string

	keys       ExplorerKeyMap
	help       help.Model
	inputFrame core.InputFrame

	stats   *sessionStats
	visible []dungeon.Tile
	probe   bool
	hit     bool

	quitting bool
}

// NewModel creates an explorer over a freshly generated dungeon.
func NewModel(opts ExplorerOptions) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rt := opts.Runtime
	if rt.ScreenW <= 0 || rt.ScreenH <= 0 {
		def := core.DefaultConfig()
		rt.ScreenW, rt.ScreenH = def.ScreenW, def.ScreenH
	}
	if rt.TickRate <= 0 {
		rt.TickRate = core.DefaultConfig().TickRate
	}
	if rt.Seed == 0 {
		rt.Seed = opts.Config.Dungeon.Seed
	}

	d := opts.Config.NewDungeon(logger).Generate(context.Background(), rt.Seed)

	h := help.New()
	h.Width = rt.ScreenW

	return Model{
		cfg:        opts.Config,
		runtime:    rt,
		dungeon:    d,
		viewport:   opts.Config.Viewport(),
		collider:   opts.Config.Collider(d),
		camera:     dungeon.NewCamera(opts.Config.Camera.StartX, opts.Config.Camera.StartY),
		screen:     core.NewScreen(rt.ScreenW, mapScreenHeight(rt.ScreenH)),
		store:      opts.Store,
		logger:     logger,
		player:     opts.Player,
		keys:       DefaultExplorerKeyMap(),
		help:       h,
		inputFrame: core.NewInputFrame(),
		stats:      newSessionStats(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, mapScreenHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey queues actions for the next tick. Help and quit apply at once.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.saveSession()
		m.quitting = true
		return m, tea.Quit
	}
	if m.inputFrame.Has(core.ActionHelp) {
		m.help.ShowAll = !m.help.ShowAll
		delete(m.inputFrame.Actions, core.ActionHelp)
	}
	return m, nil
}

// handleTick applies queued input and refreshes the visible set if the
// camera moved.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRegenerate) {
		m.regenerate(time.Now().UnixNano())
	}
	if m.inputFrame.Has(core.ActionProbe) {
		m.probe = !m.probe
	}

	for _, a := range []core.Action{core.ActionLeft, core.ActionRight, core.ActionUp, core.ActionDown} {
		if !m.inputFrame.Has(a) {
			continue
		}
		dx, dy, _ := a.Direction()
		if m.camera.Move(dx, dy, m.cfg.Camera.Speed, 1, m.dungeon.MaxDimension()) {
			m.stats.moves++
		}
	}

	m.refresh()
	m.inputFrame.Clear()
	return m, tickCmd(m.runtime.TickRate)
}

// refresh recomputes visibility when the camera is dirty.
func (m *Model) refresh() {
	if m.camera.Dirty() {
		m.visible = m.viewport.Visible(m.dungeon, m.camera.X, m.camera.Y)
		for _, t := range m.visible {
			m.stats.seen.Put(t.ID)
		}
		m.camera.ClearDirty()
	}
	if m.probe {
		m.hit = m.collider.Check(m.camera.X, m.camera.Y, 1, 1)
	}
}

// regenerate saves the current run and starts a new one on a fresh grid.
func (m *Model) regenerate(seed int64) {
	m.saveSession()
	m.dungeon.Generate(context.Background(), seed)
	m.runtime.Seed = seed
	m.stats = newSessionStats()
	m.camera.MarkDirty()
	m.logger.Debug("dungeon regenerated", "seed", seed, "tiles", m.dungeon.Len())
}

// saveSession records the current run once.
func (m *Model) saveSession() {
	if m.store == nil || m.stats.saved {
		return
	}
	m.stats.saved = true
	_, err := m.store.SaveSession(m.Session())
	if err != nil {
		m.logger.Warn("could not save session", "error", err)
	}
}

// Session returns the statistics of the current run.
func (m Model) Session() storage.Session {
	return storage.Session{
		Player:    m.player,
		RoomSize:  m.dungeon.Size(),
		Seed:      m.dungeon.Seed(),
		TileCount: m.dungeon.Len(),
		TilesSeen: m.stats.seen.Size(),
		Moves:     m.stats.moves,
		Duration:  time.Since(m.stats.started),
	}
}

// Camera returns the camera position.
func (m Model) Camera() (x, y float64) {
	return m.camera.X, m.camera.Y
}

// Visible returns the tiles visible in the last refresh.
func (m Model) Visible() []dungeon.Tile {
	return m.visible
}

// IsQuitting returns true once the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.draw()
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// draw renders the HUD, the map frame and the visible tiles into the screen
// buffer. Each tile is two cells wide; world Y grows upwards.
func (m Model) draw() {
	s := m.screen
	s.Clear()

	frame := core.NewRect(0, hudRows, s.Width(), s.Height()-hudRows)
	s.DrawBox(frame, core.ColorDarkGray)

	// Interior bounds, exclusive on the right and bottom
	left, top := frame.X+1, frame.Y+1
	right, bottom := frame.Right()-1, frame.Bottom()-1

	cx := s.Width() / 2
	cy := frame.Y + frame.H/2
	camCol := int(math.Floor(m.camera.X/core.TileSize + 0.5))
	camRow := int(math.Floor(m.camera.Y/core.TileSize + 0.5))

	for _, t := range m.visible {
		x := cx + (t.Col-camCol)*2
		y := cy - (t.Row - camRow)
		if y < top || y >= bottom {
			continue
		}
		glyph := floorGlyphs[dungeon.FrameIndex(t.ID, m.cfg.Dungeon.Frames)%len(floorGlyphs)]
		color := core.ShadeFor(m.dungeon.Noise(t.Col, t.Row))
		for dx := range 2 {
			if x+dx >= left && x+dx < right {
				s.SetColor(x+dx, y, glyph, color)
			}
		}
	}

	playerColor := core.ColorYellow
	if m.probe && m.hit {
		playerColor = core.ColorRed
	}
	s.SetColor(cx, cy, '@', playerColor)

	s.DrawTextColor(0, 0, m.hud(), core.ColorCyan)
}

// hud returns the status line.
func (m Model) hud() string {
	line := fmt.Sprintf("seed %d  size %d  pos (%.0f,%.0f)  visible %d  seen %d/%d",
		m.dungeon.Seed(), m.dungeon.Size(), m.camera.X, m.camera.Y,
		len(m.visible), m.stats.seen.Size(), m.dungeon.Len())
	if m.probe {
		state := "clear"
		if m.hit {
			state = "HIT"
		}
		line += fmt.Sprintf("  probe[%s] %s", m.collider.Mode(), state)
	}
	return line
}

// Run starts the explorer in the current terminal.
func Run(opts ExplorerOptions) error {
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
