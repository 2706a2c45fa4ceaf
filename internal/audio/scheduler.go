package audio

import (
	"fmt"
	"sync"
	"time"
)

// State is the playback state of one channel.
type State int

const (
	StateIdle State = iota
	StatePlaying
)

func (s State) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "idle"
}

// channel is the per-device playback state machine. While playing, current
// is immutable; fresh parameters land in pending and only the most recent
// update before completion survives.
type channel struct {
	deviceID string
	sourceID string
	// stagedSourceID takes effect at the next completion, never
	// interrupting playback in flight.
	stagedSourceID string
	state          State
	current        Params
	pending        *Params
	playStart      time.Time
	playDuration   time.Duration
	enabled        bool
}

// Snapshot is the externally visible view of a channel.
type Snapshot struct {
	DeviceID     string
	SourceID     string
	State        State
	Current      Params
	Pending      *Params
	PlayStart    time.Time
	PlayDuration time.Duration
	Enabled      bool
}

// Scheduler owns one playback channel per device. It is tick-driven: the
// host calls OnDistanceUpdate as samples arrive and Tick at a fixed cadence.
// All methods are safe for concurrent use; the mutex serializes channel
// updates so the play-to-completion invariant holds even under multiple
// writers.
type Scheduler struct {
	mu           sync.Mutex
	cfg          MapperConfig
	sources      *SourceRegistry
	masterVolume float64
	channels     map[string]*channel
}

// NewScheduler creates a scheduler mapping distances with cfg and resolving
// source durations from sources.
func NewScheduler(cfg MapperConfig, sources *SourceRegistry) *Scheduler {
	return &Scheduler{
		cfg:          cfg,
		sources:      sources,
		masterVolume: 1,
		channels:     make(map[string]*channel),
	}
}

// OnDistanceUpdate maps the distance for deviceID and either starts playback
// (idle channel, audible volume) or stages the parameters for the next cycle
// (playing channel). The channel is created on the first update.
func (s *Scheduler) OnDistanceUpdate(deviceID string, distance float64, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[deviceID]
	if !ok {
		ch = &channel{deviceID: deviceID, sourceID: DefaultSourceID, enabled: true}
		s.channels[deviceID] = ch
	}
	if !ch.enabled {
		return
	}

	params := MapDistance(distance, s.cfg)
	params.Volume *= s.masterVolume

	switch ch.state {
	case StateIdle:
		if params.Volume > 0 {
			s.start(ch, params, now)
		}
	case StatePlaying:
		// Never touch current mid-flight; coalesce into pending.
		ch.pending = &params
	}
}

// Tick advances every playing channel past its completion boundary: the
// staged source and latest pending parameters apply there, or the channel
// falls idle when nothing audible is queued.
func (s *Scheduler) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.channels {
		if ch.state != StatePlaying {
			continue
		}
		if now.Sub(ch.playStart) < ch.playDuration {
			continue
		}
		ch.applyStagedSource()
		if ch.pending != nil && ch.pending.Volume > 0 {
			next := *ch.pending
			ch.pending = nil
			s.start(ch, next, now)
			continue
		}
		ch.pending = nil
		ch.state = StateIdle
		ch.current = Params{}
	}
}

// start transitions ch into Playing with params as the new current set.
// Caller holds the mutex.
func (s *Scheduler) start(ch *channel, params Params, now time.Time) {
	src, ok := s.sources.Get(ch.sourceID)
	if !ok {
		src, _ = s.sources.Get(DefaultSourceID)
		ch.sourceID = DefaultSourceID
	}
	ch.state = StatePlaying
	ch.current = params
	ch.playStart = now
	ch.playDuration = src.Duration
}

// SetSource assigns an audio source to a device's channel. Idle channels
// switch immediately; playing channels stage the change for the next
// completion.
func (s *Scheduler) SetSource(deviceID, sourceID string) error {
	if _, ok := s.sources.Get(sourceID); !ok {
		return fmt.Errorf("unknown audio source %q", sourceID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[deviceID]
	if !ok {
		ch = &channel{deviceID: deviceID, sourceID: sourceID, enabled: true}
		s.channels[deviceID] = ch
		return nil
	}
	if ch.state == StatePlaying {
		ch.stagedSourceID = sourceID
		return nil
	}
	ch.sourceID = sourceID
	return nil
}

// Stop hard-cancels a channel: immediate transition to Idle regardless of
// remaining duration. Staged source changes still apply for the next start.
func (s *Scheduler) Stop(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.channels[deviceID]; ok {
		ch.applyStagedSource()
		ch.state = StateIdle
		ch.current = Params{}
		ch.pending = nil
	}
}

// StopAll hard-cancels every channel.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.channels {
		ch.applyStagedSource()
		ch.state = StateIdle
		ch.current = Params{}
		ch.pending = nil
	}
}

// SetEnabled toggles a channel. Disabling stops playback and makes the
// channel ignore distance updates until re-enabled.
func (s *Scheduler) SetEnabled(deviceID string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[deviceID]
	if !ok {
		return
	}
	ch.enabled = enabled
	if !enabled {
		ch.state = StateIdle
		ch.current = Params{}
		ch.pending = nil
	}
}

// RemoveDevice destroys a device's channel, e.g. on disconnect.
func (s *Scheduler) RemoveDevice(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, deviceID)
}

// SetMasterVolume scales the volume of subsequently mapped parameters.
// In-flight playback is unaffected.
func (s *Scheduler) SetMasterVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.masterVolume = v
}

// Snapshot returns the current view of one channel.
func (s *Scheduler) Snapshot(deviceID string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[deviceID]
	if !ok {
		return Snapshot{}, false
	}
	return ch.snapshot(), true
}

// Snapshots returns the view of every channel, unordered.
func (s *Scheduler) Snapshots() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, ch.snapshot())
	}
	return out
}

func (ch *channel) applyStagedSource() {
	if ch.stagedSourceID != "" {
		ch.sourceID = ch.stagedSourceID
		ch.stagedSourceID = ""
	}
}

func (ch *channel) snapshot() Snapshot {
	snap := Snapshot{
		DeviceID:     ch.deviceID,
		SourceID:     ch.sourceID,
		State:        ch.state,
		Current:      ch.current,
		PlayStart:    ch.playStart,
		PlayDuration: ch.playDuration,
		Enabled:      ch.enabled,
	}
	if ch.pending != nil {
		p := *ch.pending
		snap.Pending = &p
	}
	return snap
}
