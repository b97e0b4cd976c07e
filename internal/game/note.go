package game

// Note is a single chart event.
type Note struct {
	SpawnTime float64 // Song time, in seconds, the note enters the playfield
	Lane      Lane
	Speed     Speed
}

// NoteID is the stable arena slot of an in-flight note.
type NoteID int

// ActiveNote is a note between spawn and hit/miss.
type ActiveNote struct {
	ID NoteID
	Note

	// This is state, derived from the time since spawn
	X, Y     float64
	Scale    float64
	Rotation float64
}

// Spawn places a note at the off-screen spawn point of its lane.
func Spawn(id NoteID, n Note) ActiveNote {
	return ActiveNote{
		ID:       id,
		Note:     n,
		X:        SpawnPosition,
		Y:        n.Lane.Y(),
		Scale:    1,
		Rotation: n.Lane.Rotation(),
	}
}

// Distance from the target, negative while approaching.
func (n *ActiveNote) Distance() float64 {
	return n.X - TargetPosition
}
