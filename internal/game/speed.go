package game

import (
	"strings"

	"github.com/pkg/errors"
)

// Speed is the tier a note travels at.
type Speed uint8

const (
	Slow Speed = iota
	Medium
	Fast
)

var speedNames = [...]string{"slow", "medium", "fast"}

var speedMultipliers = [...]float64{1.0, 1.2, 1.5}

func (s Speed) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return speedNames[s]
}

func (s Speed) Valid() bool {
	return int(s) < len(speedNames)
}

// Multiplier scales both the velocity and the spin of a missed note.
func (s Speed) Multiplier() float64 {
	return speedMultipliers[s]
}

// Velocity in world units per second.
func (s Speed) Velocity() float64 {
	return BaseSpeed * s.Multiplier()
}

// TravelTime is the time a note of this tier takes from spawn to target.
func (s Speed) TravelTime() float64 {
	return (TargetPosition - SpawnPosition) / s.Velocity()
}

func ParseSpeed(str string) (Speed, error) {
	for i, n := range speedNames {
		if strings.EqualFold(strings.TrimSpace(str), n) {
			return Speed(i), nil
		}
	}
	return 0, errors.Errorf("unknown speed %q", str)
}

func (s Speed) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Errorf("invalid speed %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Speed) UnmarshalText(b []byte) error {
	v, err := ParseSpeed(string(b))
	if nil != err {
		return err
	}
	*s = v
	return nil
}
