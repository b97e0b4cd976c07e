package engine

import "git.lost.host/meutraa/arrows/internal/game"

// arena stores in-flight notes in reusable slots. A note keeps its slot, and
// so its NoteID, from spawn until it is judged.
type arena struct {
	slots []game.ActiveNote
	live  []bool
	free  []game.NoteID
	order []game.NoteID // spawn order
}

func (a *arena) insert(n game.Note) game.ActiveNote {
	var id game.NoteID
	if len(a.free) > 0 {
		id = a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
	} else {
		id = game.NoteID(len(a.slots))
		a.slots = append(a.slots, game.ActiveNote{})
		a.live = append(a.live, false)
	}
	a.slots[id] = game.Spawn(id, n)
	a.live[id] = true
	a.order = append(a.order, id)
	return a.slots[id]
}

func (a *arena) get(id game.NoteID) (*game.ActiveNote, bool) {
	if id < 0 || int(id) >= len(a.slots) || !a.live[id] {
		return nil, false
	}
	return &a.slots[id], true
}

// remove frees the slots of ids, keeping the spawn order of the rest.
func (a *arena) remove(ids ...game.NoteID) {
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		if _, ok := a.get(id); !ok {
			continue
		}
		a.live[id] = false
		a.free = append(a.free, id)
	}
	kept := a.order[:0]
	for _, id := range a.order {
		if a.live[id] {
			kept = append(kept, id)
		}
	}
	a.order = kept
}

func (a *arena) each(f func(n *game.ActiveNote)) {
	for _, id := range a.order {
		f(&a.slots[id])
	}
}

// notes copies the live notes in spawn order.
func (a *arena) notes() []game.ActiveNote {
	out := make([]game.ActiveNote, len(a.order))
	for i, id := range a.order {
		out[i] = a.slots[id]
	}
	return out
}

func (a *arena) len() int {
	return len(a.order)
}

func (a *arena) reset() {
	a.slots = a.slots[:0]
	a.live = a.live[:0]
	a.free = a.free[:0]
	a.order = a.order[:0]
}
