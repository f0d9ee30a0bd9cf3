package catalog

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"slices"

	"github.com/xtding233/relic-planner/internal/relic"
)

// DefaultURL is the public relic listing.
const DefaultURL = "https://api.warframestat.us/items/search/Relics/?by=category"

// Catalog is a read-only set of relics keyed by name.
type Catalog struct {
	relics map[string]*relic.Relic
}

// New returns an empty catalog.
func New(relics ...*relic.Relic) *Catalog {
	c := &Catalog{relics: make(map[string]*relic.Relic, len(relics))}
	for _, r := range relics {
		c.relics[r.Name] = r
	}
	return c
}

func (c *Catalog) Len() int { return len(c.relics) }

// Get looks a relic up by name, e.g. "Lith A1".
func (c *Catalog) Get(name string) (*relic.Relic, bool) {
	r, ok := c.relics[name]
	return r, ok
}

// Names returns all relic names, sorted.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.relics))
}

// ByEra groups the relics by era, each group sorted by name.
func (c *Catalog) ByEra() map[relic.Era][]*relic.Relic {
	out := make(map[relic.Era][]*relic.Relic)
	for _, r := range c.relics {
		out[r.Era] = append(out[r.Era], r)
	}
	for _, rs := range out {
		slices.SortFunc(rs, func(a, b *relic.Relic) int { return cmp.Compare(a.Name, b.Name) })
	}
	return out
}

// Fetch downloads and parses the listing once. There is no retry; callers
// decide what to do without a catalog.
func Fetch(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch catalog: unexpected status %s", resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	return Parse(b)
}

// LoadFile parses a listing saved on disk.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
