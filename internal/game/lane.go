package game

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Lane is one of the four fixed note directions.
type Lane uint8

const (
	Up Lane = iota
	Down
	Left
	Right
)

// LaneCount is the size of the closed lane set.
const LaneCount = 4

// Lanes in enumeration order. Simultaneous presses are resolved in this order.
var Lanes = [LaneCount]Lane{Up, Down, Left, Right}

var laneNames = [LaneCount]string{"up", "down", "left", "right"}

var laneY = [LaneCount]float64{150, 50, -50, -150}

var laneRotation = [LaneCount]float64{math.Pi * 0.5, -math.Pi * 0.5, math.Pi, 0}

func (l Lane) String() string {
	if !l.Valid() {
		return "unknown"
	}
	return laneNames[l]
}

func (l Lane) Valid() bool {
	return l < LaneCount
}

// Y is the vertical position of the lane's target and spawn point.
func (l Lane) Y() float64 {
	return laneY[l]
}

// Rotation is the orientation, in radians, of notes and markers in this lane.
func (l Lane) Rotation() float64 {
	return laneRotation[l]
}

func ParseLane(s string) (Lane, error) {
	for i, n := range laneNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Lane(i), nil
		}
	}
	return 0, errors.Errorf("unknown direction %q", s)
}

func (l Lane) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, errors.Errorf("invalid lane %d", l)
	}
	return []byte(l.String()), nil
}

func (l *Lane) UnmarshalText(b []byte) error {
	v, err := ParseLane(string(b))
	if nil != err {
		return err
	}
	*l = v
	return nil
}
