package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/relic-planner/internal/relic"
)

func TestParseItem(t *testing.T) {
	it := ParseItem("2x Forma Blueprint")
	assert.Equal(t, "Forma Blueprint", it.Name)
	assert.Equal(t, 2, it.Amount)
	assert.Equal(t, "", it.Category)
	assert.NotEmpty(t, it.ID)

	it = ParseItem("Akstiletto Prime Barrel")
	assert.Equal(t, 1, it.Amount)
	assert.Equal(t, "Akstiletto Prime", it.Category)

	// a name starting with the marker has no set
	it = ParseItem("Prime Thing")
	assert.Equal(t, "", it.Category)

	assert.NotEqual(t, ParseItem("Forma Blueprint").ID, ParseItem("Forma Blueprint").ID)
}

func TestParseRarity(t *testing.T) {
	assert.Equal(t, relic.Gold, ParseRarity(2))
	assert.Equal(t, relic.Silver, ParseRarity(11))
	assert.Equal(t, relic.Bronze, ParseRarity(25.33))
	assert.Equal(t, relic.Bronze, ParseRarity(0))
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile("testdata/relics.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"Lith A1", "Meso B2"}, c.Names())
	assert.Equal(t, 2, c.Len())

	a1, ok := c.Get("Lith A1")
	require.True(t, ok)
	assert.Equal(t, relic.Lith, a1.Era)
	require.Len(t, a1.Rewards, 5)
	// the intact record is kept over the radiant one
	assert.Equal(t, relic.Gold, a1.Rewards[4].Rarity)
	assert.Equal(t, relic.Silver, a1.Rewards[3].Rarity)
	assert.Equal(t, relic.Bronze, a1.Rewards[0].Rarity)

	b2, ok := c.Get("Meso B2")
	require.True(t, ok)
	assert.Equal(t, 2, b2.Rewards[0].Item.Amount)
	assert.Equal(t, "Forma Blueprint", b2.Rewards[0].Item.Name)

	_, ok = c.Get("Requiem I")
	assert.False(t, ok)

	byEra := c.ByEra()
	assert.Len(t, byEra[relic.Lith], 1)
	assert.Len(t, byEra[relic.Meso], 1)
	assert.Empty(t, byEra[relic.Axi])
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	_, err = Parse([]byte(`{"name": "Lith A1"}`))
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	c, err := Parse([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestFetch(t *testing.T) {
	body, err := os.ReadFile("testdata/relics.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/relics" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	c, err := Fetch(context.Background(), srv.Client(), srv.URL+"/relics")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/missing")
	assert.Error(t, err)
}
