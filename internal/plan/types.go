// types.go
package plan

// Document is a farming plan loaded from YAML.
type Document struct {
	Version  string       `yaml:"version" json:"version"`
	Defaults Defaults     `yaml:"defaults" json:"defaults"`
	Relics   []RelicEntry `yaml:"relics" json:"relics"`
	Notes    string       `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Defaults apply to every relic entry that leaves the field empty.
type Defaults struct {
	Run    string `yaml:"run,omitempty" json:"run,omitempty"` // e.g. "4b4r"
	Amount *int   `yaml:"amount,omitempty" json:"amount,omitempty"`
}

// RelicEntry selects one relic and how it is farmed. Items are referred to
// by name.
type RelicEntry struct {
	Name     string         `yaml:"name" json:"name"` // e.g. "Lith A1"
	Run      string         `yaml:"run,omitempty" json:"run,omitempty"`
	Amount   *int           `yaml:"amount,omitempty" json:"amount,omitempty"`
	Offcycle string         `yaml:"offcycle,omitempty" json:"offcycle,omitempty"`
	Order    []string       `yaml:"order,omitempty" json:"order,omitempty"`       // rank = position
	Priority map[string]int `yaml:"priority,omitempty" json:"priority,omitempty"` // explicit ranks, win over Order
}
