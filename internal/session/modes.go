package session

// Mode selects how each sensor's effective detection radius is derived.
type Mode int

const (
	// ModeAuto derives radii from live data: the simulation ground truth
	// when present, otherwise the sensor's latest range sample.
	ModeAuto Mode = iota
	// ModeOptimal uses the largest radius that respects the layout
	// constraints.
	ModeOptimal
	// ModeManual uses per-sensor operator overrides.
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeOptimal:
		return "optimal"
	case ModeManual:
		return "manual"
	default:
		return "auto"
	}
}

// Next returns the successor in the Auto -> Optimal -> Manual -> Auto cycle.
func (m Mode) Next() Mode {
	switch m {
	case ModeAuto:
		return ModeOptimal
	case ModeOptimal:
		return ModeManual
	default:
		return ModeAuto
	}
}
