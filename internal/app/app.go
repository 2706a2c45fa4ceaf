// Package app is the Bubble Tea root model: it owns the session, the audio
// scheduler, and the tick cadences, and composes the UI panels.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"echogrid/internal/audio"
	"echogrid/internal/config"
	"echogrid/internal/ingest"
	"echogrid/internal/monitoring"
	"echogrid/internal/session"
	"echogrid/internal/ui"
)

// ManualRadiusStep is the increment for +/- radius adjustment, in cm.
const ManualRadiusStep = 2.0

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	session   *session.Session
	scheduler *audio.Scheduler
	sources   *audio.SourceRegistry
	trace     *PointRing
	source    ingest.RangeSource
}

// AppModel is the root Bubble Tea model for echogrid.
type AppModel struct {
	width  int
	height int

	cfg      config.Config
	running  bool
	demoMode bool
	selected int // index into the sensor list

	masterVolume float64

	shared *shared

	// Cached snapshots, refreshed on frame ticks.
	sensors    []session.SensorNode
	position   *session.Position
	channels   []audio.Snapshot
	violations int
	lastErr    error
}

// New creates the root model over a validated config.
func New(cfg config.Config, sess *session.Session, demoMode bool) AppModel {
	sources := audio.NewSourceRegistry()
	return AppModel{
		cfg:          cfg,
		running:      true,
		demoMode:     demoMode,
		masterVolume: 1,
		shared: &shared{
			session:   sess,
			scheduler: audio.NewScheduler(mapperConfig(cfg.Audio), sources),
			sources:   sources,
			trace:     NewPointRing(config.TraceLength),
		},
	}
}

// mapperConfig converts the file-facing audio config into the mapper's form.
func mapperConfig(a config.AudioConfig) audio.MapperConfig {
	curve, err := audio.ParseCurve(a.Curve)
	if err != nil {
		curve = audio.CurveExponential
	}
	return audio.MapperConfig{
		Curve:         curve,
		Steepness:     a.Steepness,
		MinDistance:   a.MinDistance,
		MaxDistance:   a.MaxDistance,
		MinVolume:     a.MinVolume,
		MaxVolume:     a.MaxVolume,
		VolumeLimit:   a.VolumeLimit,
		PitchEnabled:  a.PitchEnabled,
		PitchRange:    a.PitchRange,
		FilterEnabled: a.FilterEnabled,
		FilterFloorHz: a.FilterFloorHz,
		FilterRangeHz: a.FilterRangeHz,
		ReverbEnabled: a.ReverbEnabled,
		ReverbRange:   a.ReverbRange,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		frameTickCmd(),
		solveTickCmd(m.cfg.SolveInterval),
		audioTickCmd(m.cfg.AudioTick),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case FrameTickMsg:
		m.refreshSnapshots()
		return m, frameTickCmd()

	case SolveTickMsg:
		if m.running {
			m.solve(time.Time(msg))
		}
		return m, solveTickCmd(m.cfg.SolveInterval)

	case AudioTickMsg:
		m.shared.scheduler.Tick(time.Time(msg))
		return m, audioTickCmd(m.cfg.AudioTick)

	case ingest.RangeSampleMsg:
		if m.running {
			if err := m.shared.session.Ingest(session.RangeSample{
				SensorID:  msg.SensorID,
				Distance:  msg.Distance,
				Timestamp: msg.Timestamp,
			}); err == nil {
				m.shared.scheduler.OnDistanceUpdate(msg.SensorID, msg.Distance, msg.Timestamp)
			}
		}
		return m, nil

	case ingest.TruePositionMsg:
		m.shared.session.SetTruePosition(msg.Position)
		return m, nil

	case ingest.SourceErrorMsg:
		m.lastErr = msg.Err
		monitoring.Log().WithError(msg.Err).Error("range source failed")
		return m, nil
	}

	return m, nil
}

func (m *AppModel) solve(now time.Time) {
	pos, err := m.shared.session.Estimate(now)
	m.lastErr = err
	if err == nil {
		m.shared.trace.Push(pos.Point)
	}
}

func (m *AppModel) refreshSnapshots() {
	m.sensors = m.shared.session.Sensors()
	if pos, ok := m.shared.session.LastPosition(); ok {
		m.position = &pos
	}
	m.violations = len(m.shared.session.Violations())
	m.channels = m.channelViews()
}

// channelViews orders channel snapshots to match the sensor list.
func (m *AppModel) channelViews() []audio.Snapshot {
	out := make([]audio.Snapshot, 0, len(m.sensors))
	for _, node := range m.sensors {
		if snap, ok := m.shared.scheduler.Snapshot(node.ID); ok {
			out = append(out, snap)
		}
	}
	return out
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.shared.scheduler.StopAll()
		if m.shared.source != nil {
			m.shared.source.Stop()
		}
		return m, tea.Quit

	case "s", "S":
		m.running = true

	case "p", "P":
		m.running = false

	case "m", "M":
		m.shared.session.CycleMode()

	case "tab", "down", "j":
		if len(m.sensors) > 0 {
			m.selected = (m.selected + 1) % len(m.sensors)
		}

	case "shift+tab", "up", "k":
		if len(m.sensors) > 0 {
			m.selected = (m.selected - 1 + len(m.sensors)) % len(m.sensors)
		}

	case "+", "=":
		m.adjustSelectedRadius(ManualRadiusStep)

	case "-", "_":
		m.adjustSelectedRadius(-ManualRadiusStep)

	case "a", "A":
		m.cycleSelectedSource()

	case "e", "E":
		if sel, ok := m.selectedSensor(); ok {
			if snap, found := m.shared.scheduler.Snapshot(sel.ID); found {
				m.shared.scheduler.SetEnabled(sel.ID, !snap.Enabled)
			}
		}

	case "x", "X":
		m.shared.scheduler.StopAll()

	case "[":
		m.masterVolume -= 0.1
		if m.masterVolume < 0 {
			m.masterVolume = 0
		}
		m.shared.scheduler.SetMasterVolume(m.masterVolume)

	case "]":
		m.masterVolume += 0.1
		if m.masterVolume > 1 {
			m.masterVolume = 1
		}
		m.shared.scheduler.SetMasterVolume(m.masterVolume)
	}

	return m, nil
}

func (m *AppModel) selectedSensor() (session.SensorNode, bool) {
	if m.selected < 0 || m.selected >= len(m.sensors) {
		return session.SensorNode{}, false
	}
	return m.sensors[m.selected], true
}

func (m *AppModel) adjustSelectedRadius(delta float64) {
	sel, ok := m.selectedSensor()
	if !ok || m.shared.session.Mode() != session.ModeManual {
		return
	}
	r, err := m.shared.session.ResolveRadius(sel.ID)
	if err != nil {
		return
	}
	if err := m.shared.session.SetManualRadius(sel.ID, r+delta); err != nil {
		monitoring.Log().WithError(err).Debug("radius adjustment rejected")
	}
}

// cycleSelectedSource steps the selected sensor's channel to the next audio
// source. Playing channels stage the change per the scheduler's rules.
func (m *AppModel) cycleSelectedSource() {
	sel, ok := m.selectedSensor()
	if !ok {
		return
	}
	ids := m.shared.sources.IDs()
	if len(ids) == 0 {
		return
	}
	current := audio.DefaultSourceID
	if snap, found := m.shared.scheduler.Snapshot(sel.ID); found {
		current = snap.SourceID
	}
	next := ids[0]
	for i, id := range ids {
		if id == current {
			next = ids[(i+1)%len(ids)]
			break
		}
	}
	_ = m.shared.scheduler.SetSource(sel.ID, next)
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing echogrid..."
	}

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 5 {
		bodyH = 5
	}

	gridW := m.width * 3 / 5
	if gridW < 30 {
		gridW = 30
	}
	sideW := m.width - gridW
	if sideW < 24 {
		sideW = 24
		gridW = m.width - sideW
	}

	menuBar := ui.RenderMenuBar(m.width, m.shared.session.Mode().String(), m.running, m.demoMode)

	innerW := gridW - 4
	innerH := bodyH - 2
	if innerW < 5 {
		innerW = 5
	}
	if innerH < 3 {
		innerH = 3
	}
	gridView := ui.GridView{
		GridWidth:  m.cfg.GridWidth,
		GridHeight: m.cfg.GridHeight,
		Sensors:    sensorViews(m.sensors, m.selected),
		Estimate:   positionView(m.position),
		Trace:      m.shared.trace.Values(),
	}
	gridPanel := ui.RenderGridPanel(gridW, bodyH, innerW, innerH, gridView)

	sensorH := bodyH / 2
	channelH := bodyH - sensorH
	sensorList := ui.RenderSensorList(sensorViews(m.sensors, m.selected), sideW, sensorH)
	channelList := ui.RenderChannelList(channelViewsFor(m.sensors, m.channels), sideW, channelH)

	statusBar := ui.RenderStatusBar(m.width, m.running, positionView(m.position),
		m.violations, m.masterVolume, m.lastErr)

	return ui.ComposeLayout(menuBar, gridPanel, sensorList, channelList, statusBar)
}

func sensorViews(sensors []session.SensorNode, selected int) []ui.SensorView {
	out := make([]ui.SensorView, len(sensors))
	for i, node := range sensors {
		out[i] = ui.SensorView{
			ID:       node.ID,
			Position: node.Position,
			Radius:   node.DetectionRadius,
			Selected: i == selected,
		}
	}
	return out
}

func positionView(pos *session.Position) *ui.PositionView {
	if pos == nil {
		return nil
	}
	return &ui.PositionView{
		Point:       pos.Point,
		Quality:     pos.Quality,
		OutOfBounds: pos.OutOfBounds,
		Stale:       pos.Stale,
		Fallback:    pos.Fallback,
	}
}

func channelViewsFor(sensors []session.SensorNode, snaps []audio.Snapshot) []ui.ChannelView {
	bySensor := make(map[string]audio.Snapshot, len(snaps))
	for _, snap := range snaps {
		bySensor[snap.DeviceID] = snap
	}
	out := make([]ui.ChannelView, 0, len(sensors))
	for _, node := range sensors {
		snap, ok := bySensor[node.ID]
		if !ok {
			out = append(out, ui.ChannelView{DeviceID: node.ID, Enabled: true})
			continue
		}
		out = append(out, ui.ChannelView{
			DeviceID: snap.DeviceID,
			SourceID: snap.SourceID,
			Playing:  snap.State == audio.StatePlaying,
			Enabled:  snap.Enabled,
			Params:   snap.Current,
			HasQueue: snap.Pending != nil,
		})
	}
	return out
}

// StartSource initializes the range source. Must be called before p.Run().
func (m *AppModel) StartSource(p *tea.Program) error {
	if m.demoMode {
		m.shared.source = ingest.NewSimSource(m.cfg)
		return m.shared.source.Start(p)
	}

	src, err := ingest.NewBLESource(m.cfg)
	if err != nil {
		return err
	}
	m.shared.source = src
	return m.shared.source.Start(p)
}

func frameTickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return FrameTickMsg(t)
	})
}

func solveTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return SolveTickMsg(t)
	})
}

func audioTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return AudioTickMsg(t)
	})
}
