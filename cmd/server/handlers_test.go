package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/relic-planner/internal/catalog"
	"github.com/xtding233/relic-planner/internal/plan"
	"github.com/xtding233/relic-planner/internal/relic"
)

func newTestAPI(t *testing.T) *api {
	t.Helper()
	cat, err := catalog.LoadFile("../../internal/catalog/testdata/relics.json")
	require.NoError(t, err)
	a := &api{trials: 1000}
	a.setCatalog(cat)
	return a
}

func do(t *testing.T, a *api, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	a.routes().ServeHTTP(rec, req)
	return rec
}

func TestRunCodes(t *testing.T) {
	rec := do(t, &api{}, http.MethodGet, "/run_codes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out []runCodeResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 6)
	assert.Equal(t, "2b2i", out[0].Code)
	assert.Equal(t, 2, out[0].Offcycle)
}

func TestRelicsByEra(t *testing.T) {
	a := newTestAPI(t)
	rec := do(t, a, http.MethodGet, "/relics?era=Lith", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, map[string][]string{"Lith": {"Lith A1"}}, out)

	rec = do(t, a, http.MethodGet, "/relics?era=Requiem", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, &api{}, http.MethodGet, "/relics", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestYield(t *testing.T) {
	a := newTestAPI(t)
	q := url.Values{}
	q.Set("relic", "Lith A1")
	q.Set("run", "2b2i")
	q.Set("amount", "2")
	q.Set("priority", "Braton Prime Receiver:-2,Akstiletto Prime Barrel:-1")
	q.Set("offcycle", "Forma Blueprint")

	rec := do(t, a, http.MethodGet, "/yield?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out yieldResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Lith A1", out.Relic)
	assert.Equal(t, 2, out.Amount)
	assert.Equal(t, "Forma Blueprint", out.Offcycle)
	require.Len(t, out.Yields, 5)
	assert.Equal(t, relic.Gold, out.Yields[0].Rarity)
	assert.InDelta(t, 2*0.0792, out.Yields[0].Expected, 1e-4)
	assert.InDelta(t, 2*0.4070, out.Yields[1].Expected, 1e-4)
}

func TestYieldErrors(t *testing.T) {
	a := newTestAPI(t)
	cases := map[string]int{
		"/yield?run=2b2i":                                  http.StatusBadRequest,
		"/yield?relic=Lith+A1":                             http.StatusBadRequest,
		"/yield?relic=Lith+A1&run=3b3i":                    http.StatusBadRequest,
		"/yield?relic=Axi+Z9&run=2b2i":                     http.StatusNotFound,
		"/yield?relic=Lith+A1&run=2b2i&amount=x":           http.StatusBadRequest,
		"/yield?relic=Lith+A1&run=2b2i&priority=Nope:1":    http.StatusBadRequest,
		"/yield?relic=Lith+A1&run=2b2i&priority=broken":    http.StatusBadRequest,
		"/yield?relic=Lith+A1&run=2b2i&offcycle=Something": http.StatusBadRequest,
	}
	for target, want := range cases {
		rec := do(t, a, http.MethodGet, target, "")
		assert.Equal(t, want, rec.Code, target)
		var e errResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), target)
		assert.NotEmpty(t, e.Err, target)
	}
}

func TestPlan(t *testing.T) {
	a := newTestAPI(t)
	body := `
defaults:
  run: 4b4r
relics:
  - name: Lith A1
  - name: Meso B2
    amount: 2
  - name: Neo Q1
`
	rec := do(t, a, http.MethodPost, "/plan", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out plan.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Relics, 2)
	assert.Len(t, out.Errors, 1)
	assert.Contains(t, out.Totals, "Akstiletto Prime")

	rec = do(t, a, http.MethodPost, "/plan", "defaults: {run: 3b3i}")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulate(t *testing.T) {
	a := newTestAPI(t)
	rec := do(t, a, http.MethodGet, "/simulate?relic=Lith+A1&run=4b4i&trials=500&seed=3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out simulateResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 500, out.Trials)
	assert.Len(t, out.Stats, 5)

	rec = do(t, a, http.MethodGet, "/simulate?relic=Lith+A1&run=4b4i&trials=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, a, http.MethodGet, "/simulate?relic=Lith+A1&run=4b4i&seed=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
