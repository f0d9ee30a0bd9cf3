package relic

import (
	"errors"
	"fmt"
	"log"
	"strconv"
)

var (
	ErrMalformedRunCode = errors.New("malformed run code")
	ErrInvalidRun       = errors.New("invalid run configuration")
)

// maxItemsPerRun is the per-run capacity ceiling; slots not filled by the
// farmed relic are the offcycle slots.
const maxItemsPerRun = 4

// Run is a farming strategy: how many relics of the same kind are opened per
// mission, how many missions make one comparable cycle, and their refinement.
type Run struct {
	ItemsPerRun  int
	RunsPerCycle int
	Refinement   Refinement
}

// runCodes is the canonical code table, in display order.
var runCodes = []struct {
	code string
	run  Run
}{
	{"2b2i", Run{ItemsPerRun: 2, RunsPerCycle: 2, Refinement: Intact}},
	{"4b4i", Run{ItemsPerRun: 4, RunsPerCycle: 1, Refinement: Intact}},
	{"2b2f", Run{ItemsPerRun: 2, RunsPerCycle: 2, Refinement: Flawless}},
	{"4b4f", Run{ItemsPerRun: 4, RunsPerCycle: 1, Refinement: Flawless}},
	{"2b2r", Run{ItemsPerRun: 2, RunsPerCycle: 2, Refinement: Radiant}},
	{"4b4r", Run{ItemsPerRun: 4, RunsPerCycle: 1, Refinement: Radiant}},
}

// RunCodes lists the accepted strategy codes.
func RunCodes() []string {
	out := make([]string, len(runCodes))
	for i, rc := range runCodes {
		out[i] = rc.code
	}
	return out
}

// ParseRun parses one of the canonical codes ("2b2i", "4b4r", ...).
func ParseRun(code string) (Run, error) {
	for _, rc := range runCodes {
		if rc.code != code {
			continue
		}
		// the table and Code must agree; a mismatch is a bug but not fatal
		if got := rc.run.Code(); got != code {
			log.Printf("relic: run code %q formats back as %q", code, got)
		}
		return rc.run, nil
	}
	return Run{}, fmt.Errorf("%w: %q", ErrMalformedRunCode, code)
}

// Code formats the run back into its strategy code.
func (r Run) Code() string {
	n := strconv.Itoa(r.ItemsPerRun)
	ref := ""
	if r.Refinement != "" {
		ref = string(r.Refinement[0])
	}
	return n + "b" + n + ref
}

func (r Run) String() string { return r.Code() }

// OffcycleCapacity is the number of per-run slots left for other relics.
func (r Run) OffcycleCapacity() int {
	return maxItemsPerRun - r.ItemsPerRun
}

// Validate checks a directly constructed run.
func (r Run) Validate() error {
	if r.ItemsPerRun < 1 || r.ItemsPerRun > maxItemsPerRun {
		return fmt.Errorf("%w: items per run %d not in 1..%d", ErrInvalidRun, r.ItemsPerRun, maxItemsPerRun)
	}
	if r.RunsPerCycle < 1 {
		return fmt.Errorf("%w: runs per cycle %d must be >= 1", ErrInvalidRun, r.RunsPerCycle)
	}
	if _, ok := probabilities[r.Refinement]; !ok {
		return fmt.Errorf("%w: refinement %q", ErrUnknownRarityOrRefinement, string(r.Refinement))
	}
	return nil
}
