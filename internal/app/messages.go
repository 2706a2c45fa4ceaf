package app

import "time"

// SolveTickMsg triggers a trilateration pass.
type SolveTickMsg time.Time

// AudioTickMsg advances the audio channel state machines.
type AudioTickMsg time.Time

// FrameTickMsg triggers a display refresh.
type FrameTickMsg time.Time
