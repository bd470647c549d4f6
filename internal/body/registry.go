package body

import (
	"fmt"
	"sort"
)

// Registry owns the live body set. Ids are assigned from a monotonic
// counter and never reused, so a stale handle after a merge or capture
// can only miss, never alias a different body.
//
// Structural changes raised while a step is scanning the set go through
// QueueInsert/QueueRemove and are applied together by Commit, keeping
// iteration safe without copy-on-write.
type Registry struct {
	nextID uint64
	bodies map[uint64]*Body
	order  []uint64

	pendingInsert []*Body
	pendingRemove []uint64
}

func NewRegistry() *Registry {
	return &Registry{
		nextID: 1,
		bodies: make(map[uint64]*Body),
	}
}

// Insert validates b, assigns it the next id and adds it to the live
// set. A zero TimeDilation is normalized to 1 before validation.
func (r *Registry) Insert(b *Body) (uint64, error) {
	if b.TimeDilation == 0 {
		b.TimeDilation = 1
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	b.ID = r.nextID
	r.nextID++
	r.bodies[b.ID] = b
	r.order = append(r.order, b.ID)
	return b.ID, nil
}

func (r *Registry) Remove(id uint64) error {
	if _, ok := r.bodies[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	delete(r.bodies, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Registry) Get(id uint64) (*Body, error) {
	b, ok := r.bodies[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return b, nil
}

func (r *Registry) Len() int { return len(r.bodies) }

// Bodies returns the live set in ascending id order. The order is
// irrelevant to the physics but must be deterministic within a step so
// floating-point accumulation is reproducible.
func (r *Registry) Bodies() []*Body {
	out := make([]*Body, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.bodies[id])
	}
	return out
}

// QueueInsert defers an insertion to the next Commit. The body's id is
// assigned at commit time.
func (r *Registry) QueueInsert(b *Body) {
	r.pendingInsert = append(r.pendingInsert, b)
}

// QueueRemove defers a removal to the next Commit.
func (r *Registry) QueueRemove(id uint64) {
	r.pendingRemove = append(r.pendingRemove, id)
}

// Commit applies all pending removals, then pending insertions, in the
// order they were queued. A pending removal of a dead id or a duplicate
// queued removal means two resolutions consumed the same body, which is
// an integrity violation: the registry stops applying and reports it.
func (r *Registry) Commit() error {
	removals := r.pendingRemove
	inserts := r.pendingInsert
	r.pendingRemove = nil
	r.pendingInsert = nil

	sort.Slice(removals, func(i, j int) bool { return removals[i] < removals[j] })
	for i, id := range removals {
		if i > 0 && removals[i-1] == id {
			return fmt.Errorf("%w: id %d removed twice in one commit", ErrIntegrity, id)
		}
		if err := r.Remove(id); err != nil {
			return fmt.Errorf("%w: pending removal of dead id %d", ErrIntegrity, id)
		}
	}
	for _, b := range inserts {
		if _, err := r.Insert(b); err != nil {
			return fmt.Errorf("merge product rejected: %w", err)
		}
	}
	return nil
}

// Clear drops all live bodies and pending operations. The id counter is
// not reset, preserving the never-reused guarantee across load/reset.
func (r *Registry) Clear() {
	r.bodies = make(map[uint64]*Body)
	r.order = nil
	r.pendingInsert = nil
	r.pendingRemove = nil
}

// Clone deep-copies the registry, bodies included.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	c.nextID = r.nextID
	for _, id := range r.order {
		b := r.bodies[id].Clone()
		c.bodies[b.ID] = b
		c.order = append(c.order, b.ID)
	}
	return c
}
