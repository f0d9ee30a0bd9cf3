package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/xtding233/relic-planner/internal/catalog"
	"github.com/xtding233/relic-planner/internal/plan"
	"github.com/xtding233/relic-planner/internal/relic"
	"github.com/xtding233/relic-planner/internal/simulate"
)

const maxPlanBytes = 1 << 20

type errResp struct {
	Err string `json:"err"`
}

type runCodeResp struct {
	Code         string `json:"code"`
	ItemsPerRun  int    `json:"items_per_run"`
	RunsPerCycle int    `json:"runs_per_cycle"`
	Refinement   string `json:"refinement"`
	Offcycle     int    `json:"offcycle_capacity"`
}

type yieldResp struct {
	Relic    string            `json:"relic"`
	Run      string            `json:"run"`
	Amount   int               `json:"amount"`
	Offcycle string            `json:"offcycle,omitempty"`
	Yields   []relic.ItemYield `json:"yields"`
}

type simulateResp struct {
	Relic  string                 `json:"relic"`
	Run    string                 `json:"run"`
	Trials int                    `json:"trials"`
	Stats  []simulate.RewardStats `json:"stats"`
}

type api struct {
	mu      sync.RWMutex
	catalog *catalog.Catalog
	trials  int
}

func (a *api) setCatalog(c *catalog.Catalog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.catalog = c
}

func (a *api) current() *catalog.Catalog {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.catalog
}

func (a *api) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /run_codes", a.handleRunCodes)
	mux.HandleFunc("GET /relics", a.handleRelics)
	mux.HandleFunc("GET /yield", a.handleYield)
	mux.HandleFunc("POST /plan", a.handlePlan)
	mux.HandleFunc("GET /simulate", a.handleSimulate)
	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errResp{Err: msg})
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseUint(r *http.Request, key string) (uint64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func (a *api) handleRunCodes(w http.ResponseWriter, r *http.Request) {
	var out []runCodeResp
	for _, code := range relic.RunCodes() {
		run, err := relic.ParseRun(code)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, runCodeResp{
			Code:         code,
			ItemsPerRun:  run.ItemsPerRun,
			RunsPerCycle: run.RunsPerCycle,
			Refinement:   string(run.Refinement),
			Offcycle:     run.OffcycleCapacity(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) handleRelics(w http.ResponseWriter, r *http.Request) {
	cat := a.current()
	if cat == nil {
		writeErr(w, http.StatusServiceUnavailable, "relic catalog not loaded")
		return
	}
	filter := r.URL.Query().Get("era")
	if filter != "" {
		if _, ok := relic.ParseEra(filter); !ok {
			writeErr(w, http.StatusBadRequest, "invalid era")
			return
		}
	}
	out := make(map[relic.Era][]string)
	for era, rs := range cat.ByEra() {
		if filter != "" && string(era) != filter {
			continue
		}
		for _, rl := range rs {
			out[era] = append(out[era], rl.Name)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// stateFromQuery builds an acquisition state from
// relic=&run=&amount=&offcycle=&priority=name:rank,...
func (a *api) stateFromQuery(r *http.Request) (relic.State, int, string) {
	cat := a.current()
	if cat == nil {
		return relic.State{}, http.StatusServiceUnavailable, "relic catalog not loaded"
	}
	q := r.URL.Query()
	name := q.Get("relic")
	if name == "" {
		return relic.State{}, http.StatusBadRequest, "missing param relic"
	}
	rl, ok := cat.Get(name)
	if !ok {
		return relic.State{}, http.StatusNotFound, "unknown relic " + name
	}
	code := q.Get("run")
	if code == "" {
		return relic.State{}, http.StatusBadRequest, "missing param run"
	}
	run, err := relic.ParseRun(code)
	if err != nil {
		return relic.State{}, http.StatusBadRequest, err.Error()
	}
	s := relic.NewState(rl).WithRun(run)

	amount, ok, msg := parseInt(r, "amount")
	if msg != "" {
		return relic.State{}, http.StatusBadRequest, msg
	}
	if ok {
		if amount < 1 {
			return relic.State{}, http.StatusBadRequest, "amount must be >= 1"
		}
		s = s.WithAmount(amount)
	}

	if prio := q.Get("priority"); prio != "" {
		for _, pair := range strings.Split(prio, ",") {
			itemName, rankStr, found := strings.Cut(pair, ":")
			rank, err := strconv.Atoi(rankStr)
			if !found || err != nil {
				return relic.State{}, http.StatusBadRequest, "invalid priority " + pair
			}
			rw, ok := rl.RewardByName(itemName)
			if !ok {
				return relic.State{}, http.StatusBadRequest, "unknown item " + itemName
			}
			if s, err = s.WithPriority(rw.Item.ID, rank); err != nil {
				return relic.State{}, http.StatusBadRequest, err.Error()
			}
		}
	}

	if off := q.Get("offcycle"); off != "" {
		rw, ok := rl.RewardByName(off)
		if !ok {
			return relic.State{}, http.StatusBadRequest, "unknown item " + off
		}
		if s, err = s.WithOffcycle(rw.Item.ID); err != nil {
			return relic.State{}, http.StatusBadRequest, err.Error()
		}
	}
	return s, http.StatusOK, ""
}

func (a *api) handleYield(w http.ResponseWriter, r *http.Request) {
	s, code, msg := a.stateFromQuery(r)
	if msg != "" {
		writeErr(w, code, msg)
		return
	}
	yields, err := s.Yield()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	run, _ := s.Run()
	resp := yieldResp{Relic: s.Relic().Name, Run: run.Code(), Amount: s.Amount(), Yields: yields}
	if id := s.Offcycle(); id != "" {
		if rw, ok := s.Relic().Reward(id); ok {
			resp.Offcycle = rw.Item.Name
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *api) handlePlan(w http.ResponseWriter, r *http.Request) {
	cat := a.current()
	if cat == nil {
		writeErr(w, http.StatusServiceUnavailable, "relic catalog not loaded")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPlanBytes))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := plan.Decode(body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := plan.Validate(doc); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plan.Evaluate(cat, doc))
}

func (a *api) handleSimulate(w http.ResponseWriter, r *http.Request) {
	s, code, msg := a.stateFromQuery(r)
	if msg != "" {
		writeErr(w, code, msg)
		return
	}
	trials, ok, msg := parseInt(r, "trials")
	if msg != "" {
		writeErr(w, http.StatusBadRequest, msg)
		return
	}
	if !ok {
		trials = a.trials
	}
	if trials <= 0 || trials > 10*a.trials {
		writeErr(w, http.StatusBadRequest, "trials out of range")
		return
	}
	var rng simulate.RandomSource
	if seed, ok, msg := parseUint(r, "seed"); msg != "" {
		writeErr(w, http.StatusBadRequest, msg)
		return
	} else if ok {
		rng = simulate.NewSeededRNG(seed)
	}

	run, _ := s.Run()
	stats, err := simulate.RunMonteCarlo(simulate.Params{Run: run, Rewards: s.Rewards(), Offcycle: s.Offcycle()}, trials, rng)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, simulateResp{Relic: s.Relic().Name, Run: run.Code(), Trials: trials, Stats: stats})
}
