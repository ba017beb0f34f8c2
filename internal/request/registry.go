package request

import "sync"

// Registry hands out one slot per operation name.
type Registry struct {
	policy Policy

	mu    sync.Mutex
	slots map[string]*Slot
}

func NewRegistry(policy Policy) *Registry {
	return &Registry{
		policy: policy,
		slots:  make(map[string]*Slot),
	}
}

func (r *Registry) Slot(name string) *Slot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.slots[name]; ok {
		return s
	}
	s := NewSlot(name, r.policy)
	r.slots[name] = s
	return s
}

func (r *Registry) State(name string) State {
	return r.Slot(name).State()
}

func (r *Registry) Snapshot() map[string]State {
	r.mu.Lock()
	slots := make([]*Slot, 0, len(r.slots))
	for _, s := range r.slots {
		slots = append(slots, s)
	}
	r.mu.Unlock()

	out := make(map[string]State, len(slots))
	for _, s := range slots {
		out[s.Name()] = s.State()
	}
	return out
}

// Reset returns every slot to idle, used on logout. Responses still in
// flight for the previous session are dropped when they settle.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		s.reset()
	}
}
