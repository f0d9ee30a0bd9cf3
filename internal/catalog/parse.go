package catalog

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/xtding233/relic-planner/internal/relic"
)

var ErrInvalidCatalog = errors.New("invalid relic catalog")

const (
	doublePrefix = "2x "
	setMarker    = "Prime"
)

// chance values (percent, intact) that identify the rarer tiers
const (
	goldChance   = 2
	silverChance = 11
)

// ParseItem normalises one raw reward name. "2x " marks a double drop and
// everything up to "Prime" names the set the item belongs to.
func ParseItem(raw string) relic.Item {
	item := relic.Item{ID: uuid.NewString(), Name: raw, Amount: 1}
	if name, ok := strings.CutPrefix(raw, doublePrefix); ok {
		item.Name = name
		item.Amount = 2
	}
	if i := strings.Index(item.Name, setMarker); i > 0 {
		item.Category = item.Name[:i+len(setMarker)]
	}
	return item
}

// ParseRarity maps a listed drop chance to its tier.
func ParseRarity(chance float64) relic.Rarity {
	switch chance {
	case goldChance:
		return relic.Gold
	case silverChance:
		return relic.Silver
	default:
		return relic.Bronze
	}
}

// parseRelic turns one raw record into a relic and reports whether it is
// the intact variant. Records outside the four eras (requiem relics,
// malformed names) are dropped.
func parseRelic(v gjson.Result) (*relic.Relic, bool, bool) {
	chunks := strings.Fields(v.Get("name").String())
	if len(chunks) < 2 {
		return nil, false, false
	}
	era, ok := relic.ParseEra(chunks[0])
	if !ok {
		return nil, false, false
	}
	intact := len(chunks) < 3 || chunks[2] == "Intact"
	r := &relic.Relic{Name: chunks[0] + " " + chunks[1], Era: era}
	v.Get("rewards").ForEach(func(_, rw gjson.Result) bool {
		r.Rewards = append(r.Rewards, relic.Reward{
			Rarity: ParseRarity(rw.Get("chance").Float()),
			Item:   ParseItem(rw.Get("item.name").String()),
		})
		return true
	})
	if len(r.Rewards) == 0 {
		return nil, false, false
	}
	return r, intact, true
}

// Parse normalises a raw relic listing: a JSON array of
// {name, rewards: [{item: {name}, chance}]} records.
func Parse(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidCatalog
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, ErrInvalidCatalog
	}
	c := New()
	root.ForEach(func(_, v gjson.Result) bool {
		r, intact, ok := parseRelic(v)
		if !ok {
			return true
		}
		// refinement variants share a name. Only intact chances map onto
		// rarities, so the intact record wins, else the first one seen.
		if _, seen := c.relics[r.Name]; !seen || intact {
			c.relics[r.Name] = r
		}
		return true
	})
	return c, nil
}
