package game

// Chart is the ordered list of notes for one song.
type Chart struct {
	Name  string
	Audio string // Path of the song audio, relative to the chart file
	Notes []Note

	head int
}

// Pending is the part of the chart that has not been spawned yet.
func (c *Chart) Pending() []Note {
	return c.Notes[c.head:]
}

// Head returns the next note to spawn.
func (c *Chart) Head() (Note, bool) {
	if c.head >= len(c.Notes) {
		return Note{}, false
	}
	return c.Notes[c.head], true
}

// Pop retires the head of the pending queue.
func (c *Chart) Pop() Note {
	n := c.Notes[c.head]
	c.head++
	return n
}

// Rewind puts every note back into the pending queue.
func (c *Chart) Rewind() {
	c.head = 0
}

func (c *Chart) Len() int {
	return len(c.Notes)
}

// Sorted reports whether spawn times never decrease, returning the first
// offending index otherwise.
func (c *Chart) Sorted() (int, bool) {
	for i := 1; i < len(c.Notes); i++ {
		if c.Notes[i].SpawnTime < c.Notes[i-1].SpawnTime {
			return i, false
		}
	}
	return -1, true
}

// Clone copies the notes so a chart can be replayed without sharing a cursor.
func (c *Chart) Clone() *Chart {
	notes := make([]Note, len(c.Notes))
	copy(notes, c.Notes)
	return &Chart{Name: c.Name, Audio: c.Audio, Notes: notes}
}
