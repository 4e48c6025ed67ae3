package engine

// State holds every mutable piece of a conversation from the engine's point
// of view: per-rule reassembly rotation, greeting and fallback rotation, and
// the bounded memory queue. Each identity owns exactly one State; the Engine
// itself stays immutable so a script can back any number of identities.
type State struct {
	rotations []int
	greeting  int
	fallback  int
	memory    []string
	memoryCap int
}

// next returns the rotation index for the rule and advances it.
func (st *State) next(ruleID, templates int) int {
	idx := st.rotations[ruleID] % templates
	st.rotations[ruleID]++
	return idx
}

// remember enqueues a deferred response, evicting the oldest entry when the
// queue is at capacity.
func (st *State) remember(resp string) {
	if st.memoryCap <= 0 {
		return
	}
	if len(st.memory) >= st.memoryCap {
		st.memory = st.memory[1:]
	}
	st.memory = append(st.memory, resp)
}

// recall dequeues the oldest deferred response.
func (st *State) recall() (string, bool) {
	if len(st.memory) == 0 {
		return "", false
	}
	resp := st.memory[0]
	st.memory = st.memory[1:]
	return resp, true
}

// MemoryLen reports how many deferred responses are queued.
func (st *State) MemoryLen() int { return len(st.memory) }

// Clone copies the state, memory queue included.
func (st *State) Clone() *State {
	c := &State{
		rotations: make([]int, len(st.rotations)),
		greeting:  st.greeting,
		fallback:  st.fallback,
		memory:    make([]string, len(st.memory)),
		memoryCap: st.memoryCap,
	}
	copy(c.rotations, st.rotations)
	copy(c.memory, st.memory)
	return c
}
