// resolve.go
package plan

import (
	"errors"
	"fmt"

	"github.com/xtding233/relic-planner/internal/relic"
)

var ErrUnknownRelic = errors.New("relic not in catalog")

// Relics looks relics up by name; *catalog.Catalog implements it.
type Relics interface {
	Get(name string) (*relic.Relic, bool)
}

// Resolve turns every relic entry into an acquisition state. Entries that
// cannot be resolved are left out and reported together in the error; the
// others are still returned.
func Resolve(relics Relics, doc Document) ([]relic.State, error) {
	var (
		states []relic.State
		errs   []error
	)
	for _, e := range doc.Relics {
		s, err := resolveEntry(relics, doc.Defaults, e)
		if err != nil {
			errs = append(errs, fmt.Errorf("relic %q: %w", e.Name, err))
			continue
		}
		states = append(states, s)
	}
	return states, errors.Join(errs...)
}

func resolveEntry(relics Relics, def Defaults, e RelicEntry) (relic.State, error) {
	r, ok := relics.Get(e.Name)
	if !ok {
		return relic.State{}, ErrUnknownRelic
	}
	s := relic.NewState(r)

	itemID := func(name string) (string, error) {
		rw, ok := r.RewardByName(name)
		if !ok {
			return "", fmt.Errorf("%w: %q", relic.ErrUnknownItem, name)
		}
		return rw.Item.ID, nil
	}

	// listed items first, by position; the rest after them in catalog order
	if len(e.Order) > 0 {
		ranks := make(map[string]int, len(r.Rewards))
		for i, rw := range r.Rewards {
			ranks[rw.Item.ID] = len(e.Order) + i
		}
		for i, name := range e.Order {
			id, err := itemID(name)
			if err != nil {
				return relic.State{}, err
			}
			ranks[id] = i
		}
		for id, rank := range ranks {
			var err error
			if s, err = s.WithPriority(id, rank); err != nil {
				return relic.State{}, err
			}
		}
	}
	for name, rank := range e.Priority {
		id, err := itemID(name)
		if err != nil {
			return relic.State{}, err
		}
		if s, err = s.WithPriority(id, rank); err != nil {
			return relic.State{}, err
		}
	}

	code := e.Run
	if code == "" {
		code = def.Run
	}
	if code != "" {
		run, err := relic.ParseRun(code)
		if err != nil {
			return relic.State{}, err
		}
		s = s.WithRun(run)
	}

	switch {
	case e.Amount != nil:
		s = s.WithAmount(*e.Amount)
	case def.Amount != nil:
		s = s.WithAmount(*def.Amount)
	}

	if e.Offcycle != "" {
		id, err := itemID(e.Offcycle)
		if err != nil {
			return relic.State{}, err
		}
		if s, err = s.WithOffcycle(id); err != nil {
			return relic.State{}, err
		}
	}
	return s, nil
}
