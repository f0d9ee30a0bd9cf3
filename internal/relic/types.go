// types.go
package relic

import "fmt"

// Rarity is the drop tier of a reward inside a relic.
type Rarity int

const (
	Bronze Rarity = iota
	Silver
	Gold
)

func (r Rarity) String() string {
	switch r {
	case Bronze:
		return "bronze"
	case Silver:
		return "silver"
	case Gold:
		return "gold"
	default:
		return "unknown"
	}
}

func (r Rarity) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Rarity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "bronze":
		*r = Bronze
	case "silver":
		*r = Silver
	case "gold":
		*r = Gold
	default:
		return fmt.Errorf("unknown rarity %q", b)
	}
	return nil
}

// Era classifies a relic family. Display and grouping only.
type Era string

const (
	Lith Era = "Lith"
	Meso Era = "Meso"
	Neo  Era = "Neo"
	Axi  Era = "Axi"
)

// Eras lists the known eras in progression order.
func Eras() []Era { return []Era{Lith, Meso, Neo, Axi} }

// ParseEra maps a relic name token to its era.
func ParseEra(s string) (Era, bool) {
	switch Era(s) {
	case Lith, Meso, Neo, Axi:
		return Era(s), true
	}
	return "", false
}

// Item is one reward item. Items sharing a Category are summed together
// by Aggregate; an empty Category keeps the item out of the totals.
type Item struct {
	ID       string `json:"id"`                 // stable per item instance, e.g. a uuid
	Name     string `json:"name"`               // e.g. "Akstiletto Prime Barrel"
	Category string `json:"category,omitempty"` // e.g. "Akstiletto Prime"; may be empty
	Amount   int    `json:"amount"`             // copies granted per draw, >= 1
}

// Reward pairs an item with its rarity in one relic.
type Reward struct {
	Rarity Rarity
	Item   Item
}

// Relic is a drop table. Real relics carry 3 bronze, 1 silver and 1 gold
// reward but nothing here depends on that shape.
type Relic struct {
	Name    string // e.g. "Lith A1", unique in a catalog
	Era     Era
	Rewards []Reward
}

// Reward returns the reward holding the given item id.
func (r *Relic) Reward(itemID string) (Reward, bool) {
	for _, rw := range r.Rewards {
		if rw.Item.ID == itemID {
			return rw, true
		}
	}
	return Reward{}, false
}

// RewardByName returns the first reward whose item has the given name.
func (r *Relic) RewardByName(name string) (Reward, bool) {
	for _, rw := range r.Rewards {
		if rw.Item.Name == name {
			return rw, true
		}
	}
	return Reward{}, false
}

// ItemYield is the expected count of one item per farming cycle.
type ItemYield struct {
	Item     Item    `json:"item"`
	Rarity   Rarity  `json:"rarity"`
	Expected float64 `json:"expected"`
}
