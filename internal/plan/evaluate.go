package plan

import (
	"errors"

	"github.com/xtding233/relic-planner/internal/relic"
)

// RelicResult is the computed yield of one resolved relic entry.
type RelicResult struct {
	Name   string            `json:"name"`
	Run    string            `json:"run,omitempty"`
	Amount int               `json:"amount"`
	Yields []relic.ItemYield `json:"yields,omitempty"`
}

// Result is a fully evaluated plan.
type Result struct {
	Relics []RelicResult `json:"relics"`
	Totals relic.Totals  `json:"totals"`
	Errors []string      `json:"errors,omitempty"`
}

// Evaluate resolves doc against relics and computes every yield and the
// category totals. Problems with single entries end up in Result.Errors;
// everything else is still computed.
func Evaluate(relics Relics, doc Document) Result {
	var res Result
	states, err := Resolve(relics, doc)
	res.Errors = append(res.Errors, unwrapJoined(err)...)

	usable := make([]relic.State, 0, len(states))
	for _, s := range states {
		rr := RelicResult{Name: s.Relic().Name, Amount: s.Amount()}
		if run, ok := s.Run(); ok {
			rr.Run = run.Code()
		}
		yields, err := s.Yield()
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		rr.Yields = yields
		res.Relics = append(res.Relics, rr)
		usable = append(usable, s)
	}
	res.Totals = relic.Aggregate(usable)
	return res
}

func unwrapJoined(err error) []string {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
