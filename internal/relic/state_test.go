package relic

import (
	"math"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(rewards []Reward) []string {
	out := make([]string, len(rewards))
	for i, rw := range rewards {
		out[i] = rw.Item.ID
	}
	return out
}

func TestStateDefaults(t *testing.T) {
	s := NewState(testRelic())
	assert.Equal(t, []string{"b1", "b2", "b3", "s1", "g1"}, ids(s.Rewards()))
	assert.Equal(t, 1, s.Amount())
	_, ok := s.Run()
	assert.False(t, ok)

	y, err := s.Yield()
	require.NoError(t, err)
	assert.Nil(t, y)
}

func TestStatePriorityOrdering(t *testing.T) {
	s := NewState(testRelic())
	s, err := s.WithPriority("g1", -1)
	require.NoError(t, err)
	s, err = s.WithPriority("s1", 1) // ties with b2, b2 stays first
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "b1", "b2", "s1", "b3"}, ids(s.Rewards()))

	_, err = s.WithPriority("missing", 0)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestStatePriorityExtremeRanks(t *testing.T) {
	s, err := NewState(testRelic()).WithPriority("b1", math.MaxInt)
	require.NoError(t, err)
	s, err = s.WithPriority("g1", math.MinInt)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "b2", "b3", "s1", "b1"}, ids(s.Rewards()))

	// the gold reward leads, so it gets the full single-draw mass
	run, err := ParseRun("2b2i")
	require.NoError(t, err)
	y, err := s.WithRun(run).Yield()
	require.NoError(t, err)
	assert.InDelta(t, 0.0792, y[0].Expected, 1e-4)
}

func TestStateZeroValue(t *testing.T) {
	var s State
	assert.Nil(t, s.Rewards())
	assert.Equal(t, 1, s.Amount())

	run, err := ParseRun("2b2i")
	require.NoError(t, err)
	y, err := s.WithRun(run).Yield()
	require.NoError(t, err)
	assert.Nil(t, y)

	_, err = s.WithPriority("g1", 0)
	assert.ErrorIs(t, err, ErrUnknownItem)
	_, err = s.WithOffcycle("g1")
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Empty(t, Aggregate([]State{s}))
}

func TestStateCopyOnWrite(t *testing.T) {
	base := NewState(testRelic())
	run, _ := ParseRun("2b2i")
	withRun := base.WithRun(run)
	changed, err := withRun.WithPriority("g1", -5)
	require.NoError(t, err)

	assert.Equal(t, 4, withRun.Priority("g1"))
	assert.Equal(t, -5, changed.Priority("g1"))
	_, ok := base.Run()
	assert.False(t, ok)

	more := changed.WithAmount(3)
	assert.Equal(t, 1, changed.Amount())
	assert.Equal(t, 3, more.Amount())
	assert.Equal(t, 1, more.WithAmount(0).Amount())
}

func TestStateYieldScalesByAmount(t *testing.T) {
	run, _ := ParseRun("4b4f")
	s := NewState(testRelic()).WithRun(run)
	one, err := s.Yield()
	require.NoError(t, err)
	three, err := s.WithAmount(3).Yield()
	require.NoError(t, err)
	require.Len(t, three, len(one))
	for i := range one {
		assert.Equal(t, one[i].Item, three[i].Item)
		assert.InDelta(t, one[i].Expected*3, three[i].Expected, 1e-12)
	}
}

func TestStateOffcycle(t *testing.T) {
	run2, _ := ParseRun("2b2i")
	run4, _ := ParseRun("4b4i")

	s, err := NewState(testRelic()).WithRun(run2).WithOffcycle("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.Offcycle())

	// switching to a full run drops the marker
	full := s.WithRun(run4)
	assert.Equal(t, "", full.Offcycle())
	assert.Equal(t, "s1", s.Offcycle())

	_, err = s.WithOffcycle("missing")
	assert.ErrorIs(t, err, ErrUnknownItem)

	cleared, err := s.WithOffcycle("")
	require.NoError(t, err)
	assert.Equal(t, "", cleared.Offcycle())
}

func TestStateOffcycleNoEffectWithoutCapacity(t *testing.T) {
	run, _ := ParseRun("4b4r")
	s := NewState(testRelic()).WithRun(run)
	before, err := s.Yield()
	require.NoError(t, err)
	marked, err := s.WithOffcycle("b1")
	require.NoError(t, err)
	after, err := marked.Yield()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStateEqualRanksStable(t *testing.T) {
	run, _ := ParseRun("2b2f")
	s := NewState(testRelic()).WithRun(run)
	for _, rw := range testRelic().Rewards {
		var err error
		s, err = s.WithPriority(rw.Item.ID, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"b1", "b2", "b3", "s1", "g1"}, ids(s.Rewards()))

	// the same relic with its rewards listed in another catalog order
	swapped := testRelic()
	swapped.Rewards[0], swapped.Rewards[1] = swapped.Rewards[1], swapped.Rewards[0]
	t2 := NewState(swapped).WithRun(run)
	for _, rw := range swapped.Rewards {
		t2, _ = t2.WithPriority(rw.Item.ID, 0)
	}

	values := func(st State) []float64 {
		y, err := st.Yield()
		require.NoError(t, err)
		out := make([]float64, len(y))
		for i := range y {
			out[i] = y[i].Expected
		}
		sort.Float64s(out)
		return out
	}
	assert.True(t, slices.Equal(values(s), values(t2)))
}

func TestAggregate(t *testing.T) {
	run, _ := ParseRun("2b2i")
	a := NewState(testRelic()).WithRun(run)
	b := NewState(testRelic()).WithRun(run).WithAmount(2)
	unset := NewState(testRelic())
	broken := NewState(testRelic()).WithRun(Run{ItemsPerRun: 2, RunsPerCycle: 2, Refinement: "exceptional"})

	ya, err := a.Yield()
	require.NoError(t, err)

	totals := Aggregate([]State{a, b, unset, broken})
	assert.Equal(t, []string{"Akstiletto Prime", "Braton Prime", "Bronco Prime", "Lex Prime"}, totals.Categories())
	for _, y := range ya {
		if y.Item.Category == "" {
			continue
		}
		assert.InDelta(t, y.Expected*3, totals[y.Item.Category][y.Item.Name], 1e-12)
	}
	// uncategorised items never show up
	for _, c := range totals.Categories() {
		assert.NotContains(t, totals.Items(c), "Forma Blueprint")
	}

	// dropping a relic drops its contribution
	only := Aggregate([]State{a})
	for _, y := range ya {
		if y.Item.Category != "" {
			assert.InDelta(t, y.Expected, only[y.Item.Category][y.Item.Name], 1e-12)
		}
	}
	assert.Empty(t, Aggregate(nil))
}

func TestTotalsAddAcrossRelics(t *testing.T) {
	totals := make(Totals)
	forma := Item{ID: "a", Name: "Forma Blueprint", Category: "Forma"}
	totals.Add(ItemYield{Item: forma, Expected: 5.0})
	forma.ID = "b"
	totals.Add(ItemYield{Item: forma, Expected: 3.0})
	totals.Add(ItemYield{Item: Item{Name: "Void Traces"}, Expected: 9})

	assert.Equal(t, 8.0, totals["Forma"]["Forma Blueprint"])
	assert.Equal(t, []string{"Forma"}, totals.Categories())
	assert.Equal(t, []string{"Forma Blueprint"}, totals.Items("Forma"))
}
