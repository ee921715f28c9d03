package testutils

import "fmt"

// ScriptedRoller implements dice.Roller by replaying a fixed queue of roll
// results. Tests script the exact rolls a resolution will consume, so hit,
// miss, and critical paths are all reachable deterministically.
type ScriptedRoller struct {
	rolls []int
	next  int
}

// NewScriptedRoller creates a roller that returns the given values in order
func NewScriptedRoller(rolls ...int) *ScriptedRoller {
	return &ScriptedRoller{rolls: rolls}
}

// Roll returns the next scripted value, clamped into [1, size]
func (r *ScriptedRoller) Roll(size int) (int, error) {
	if size < 1 {
		return 0, fmt.Errorf("invalid die size %d", size)
	}
	if r.next >= len(r.rolls) {
		return 0, fmt.Errorf("scripted roller exhausted after %d rolls", len(r.rolls))
	}
	v := r.rolls[r.next]
	r.next++
	if v < 1 {
		v = 1
	}
	if v > size {
		v = size
	}
	return v, nil
}

// RollN returns the next n scripted values
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
