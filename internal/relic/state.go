package relic

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrUnknownItem = errors.New("item not in relic")

// State is the per-relic acquisition setup chosen by a user. Build one
// with NewState; the zero State has no relic and yields nothing.
//
// State is a value: every With* method returns an updated copy and never
// touches the receiver, so older snapshots stay valid for readers that
// still hold them.
type State struct {
	relic    *Relic
	priority map[string]int // item id -> rank, lower ranks first
	run      *Run
	amount   int // 0 means unset
	offcycle string
}

// NewState starts a state for r. Each reward is ranked by its catalog
// position.
func NewState(r *Relic) State {
	priority := make(map[string]int, len(r.Rewards))
	for i, rw := range r.Rewards {
		priority[rw.Item.ID] = i
	}
	return State{relic: r, priority: priority}
}

func (s State) Relic() *Relic { return s.relic }

func (s State) relicName() string {
	if s.relic == nil {
		return "<no relic>"
	}
	return s.relic.Name
}

func (s State) hasItem(itemID string) bool {
	if s.relic == nil {
		return false
	}
	_, ok := s.relic.Reward(itemID)
	return ok
}

// Run returns the configured run, if any.
func (s State) Run() (Run, bool) {
	if s.run == nil {
		return Run{}, false
	}
	return *s.run, true
}

// Amount is the number of copies the user wants; 1 when unset.
func (s State) Amount() int {
	if s.amount == 0 {
		return 1
	}
	return s.amount
}

// Offcycle returns the offcycle marker item id, or "".
func (s State) Offcycle() string { return s.offcycle }

// Priority returns the rank of an item. Items without a rank sit at 0.
func (s State) Priority(itemID string) int { return s.priority[itemID] }

// WithRun sets the run. A run without spare capacity drops the offcycle
// marker.
func (s State) WithRun(run Run) State {
	out := s
	out.run = &run
	if run.OffcycleCapacity() <= 0 {
		out.offcycle = ""
	}
	return out
}

// WithPriority sets the rank of one item.
func (s State) WithPriority(itemID string, rank int) (State, error) {
	if !s.hasItem(itemID) {
		return s, fmt.Errorf("%w: %q in %s", ErrUnknownItem, itemID, s.relicName())
	}
	out := s
	out.priority = maps.Clone(s.priority)
	if out.priority == nil {
		out.priority = make(map[string]int, 1)
	}
	out.priority[itemID] = rank
	return out, nil
}

// WithAmount sets the wanted number of copies. Values below 1 reset it.
func (s State) WithAmount(n int) State {
	out := s
	if n < 1 {
		n = 0
	}
	out.amount = n
	return out
}

// WithOffcycle marks the item from which the offcycle discount applies.
// An empty id clears the marker. While the run uses every slot there is no
// offcycle and the marker stays cleared.
func (s State) WithOffcycle(itemID string) (State, error) {
	out := s
	if itemID == "" {
		out.offcycle = ""
		return out, nil
	}
	if !s.hasItem(itemID) {
		return s, fmt.Errorf("%w: %q in %s", ErrUnknownItem, itemID, s.relicName())
	}
	if s.run != nil && s.run.OffcycleCapacity() <= 0 {
		out.offcycle = ""
		return out, nil
	}
	out.offcycle = itemID
	return out, nil
}

// Rewards returns the relic rewards by ascending rank. Equal ranks keep
// catalog order.
func (s State) Rewards() []Reward {
	if s.relic == nil {
		return nil
	}
	out := slices.Clone(s.relic.Rewards)
	slices.SortStableFunc(out, func(a, b Reward) int {
		return cmp.Compare(s.priority[a.Item.ID], s.priority[b.Item.ID])
	})
	return out
}

// Yield computes the expected per-cycle count of each reward, in priority
// order, scaled by Amount. It returns nil when no run is set.
func (s State) Yield() ([]ItemYield, error) {
	if s.run == nil || s.relic == nil {
		return nil, nil
	}
	ordered := s.Rewards()
	values, err := ComputeYield(*s.run, ordered, s.offcycle)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.relicName(), err)
	}
	amount := float64(s.Amount())
	out := make([]ItemYield, len(ordered))
	for i, rw := range ordered {
		out[i] = ItemYield{Item: rw.Item, Rarity: rw.Rarity, Expected: values[i] * amount}
	}
	return out, nil
}
