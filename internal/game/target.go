package game

import "iter"

// TargetID identifies a target for the lifetime of a session. IDs are never
// reused, so a stale ID simply fails to resolve.
type TargetID uint64

type Target struct {
	ID     TargetID
	Column int
	Y      float64 // top edge, grows downwards
	Hit    bool
	Linger float64 // seconds left on screen after a hit
}

// Registry owns the live targets. Traversal follows spawn order.
type Registry struct {
	targets map[TargetID]*Target
	order   []TargetID
	nextID  TargetID

	walking int
	pending map[TargetID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[TargetID]*Target),
		pending: make(map[TargetID]struct{}),
		nextID:  1,
	}
}

func (r *Registry) Spawn(column int, y float64) TargetID {
	id := r.nextID
	r.nextID++
	r.targets[id] = &Target{ID: id, Column: column, Y: y}
	r.order = append(r.order, id)
	return id
}

// Get resolves id to a live target. Targets removed during a traversal that
// is still running no longer resolve.
func (r *Registry) Get(id TargetID) (*Target, bool) {
	if _, gone := r.pending[id]; gone {
		return nil, false
	}
	t, ok := r.targets[id]
	return t, ok
}

// All yields every live target. Mutations through the yielded pointers are
// visible to the rest of the pass. Removals made while a traversal is running
// are applied once the outermost traversal finishes. Targets spawned during a
// traversal are not visited by it.
func (r *Registry) All() iter.Seq[*Target] {
	return func(yield func(*Target) bool) {
		r.walking++
		defer r.endWalk()

		order := r.order
		for _, id := range order {
			t, ok := r.Get(id)
			if !ok {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

func (r *Registry) Remove(id TargetID) {
	if _, ok := r.targets[id]; !ok {
		return
	}
	if r.walking > 0 {
		r.pending[id] = struct{}{}
		return
	}
	delete(r.targets, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) endWalk() {
	r.walking--
	if r.walking > 0 || len(r.pending) == 0 {
		return
	}
	kept := r.order[:0]
	for _, id := range r.order {
		if _, gone := r.pending[id]; gone {
			delete(r.targets, id)
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	clear(r.pending)
}

// Len counts live targets, excluding ones waiting to be unlinked.
func (r *Registry) Len() int {
	return len(r.targets) - len(r.pending)
}
