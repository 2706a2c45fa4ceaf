package audio

import (
	"fmt"
	"sort"
	"time"
)

// Source identifies one playable sound. The core only needs its duration for
// play-to-completion scheduling; actual rendering belongs to the audio-output
// layer.
type Source struct {
	ID       string
	Name     string
	Duration time.Duration
}

// SourceRegistry holds the available audio sources.
type SourceRegistry struct {
	sources map[string]Source
}

// NewSourceRegistry returns a registry seeded with the synthesized presets.
func NewSourceRegistry() *SourceRegistry {
	r := &SourceRegistry{sources: make(map[string]Source)}
	for _, s := range []Source{
		{ID: "sine_440", Name: "Sine 440Hz", Duration: 500 * time.Millisecond},
		{ID: "square_220", Name: "Square 220Hz", Duration: 500 * time.Millisecond},
		{ID: "sawtooth_330", Name: "Sawtooth 330Hz", Duration: 500 * time.Millisecond},
		{ID: "triangle_550", Name: "Triangle 550Hz", Duration: 500 * time.Millisecond},
		{ID: "pulse_110", Name: "Pulse 110Hz", Duration: 750 * time.Millisecond},
	} {
		r.sources[s.ID] = s
	}
	return r
}

// Register adds or replaces a source.
func (r *SourceRegistry) Register(s Source) error {
	if s.ID == "" {
		return fmt.Errorf("audio source with empty id")
	}
	if s.Duration <= 0 {
		return fmt.Errorf("audio source %s: duration must be positive", s.ID)
	}
	r.sources[s.ID] = s
	return nil
}

// Get looks up a source by id.
func (r *SourceRegistry) Get(id string) (Source, bool) {
	s, ok := r.sources[id]
	return s, ok
}

// IDs returns all source ids in stable order.
func (r *SourceRegistry) IDs() []string {
	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultSourceID is the source assigned to new channels.
const DefaultSourceID = "sine_440"
