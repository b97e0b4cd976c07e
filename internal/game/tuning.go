package game

// Playfield geometry in world units, and timing in seconds.
const (
	BaseSpeed      = 200.0
	SpawnPosition  = -400.0
	TargetPosition = 200.0
	Threshold      = 20.0

	// A note that reaches this X without being hit is a miss.
	MissPosition = 2 * TargetPosition

	MinScale      = 0.2
	RotationScale = 460.0
	DropRate      = 2.0

	// Song time zero is this many seconds after the session starts.
	DefaultLeadIn = 3.0
)
