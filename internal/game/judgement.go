package game

type Verdict uint8

const (
	Hit Verdict = iota
	Miss
)

func (v Verdict) String() string {
	if v == Hit {
		return "hit"
	}
	return "miss"
}

// Judgement is the outcome for a note removed from the playfield.
type Judgement struct {
	ID       NoteID
	Lane     Lane
	Verdict  Verdict
	Distance float64 // Absolute distance from the target when judged
	Points   int
}
