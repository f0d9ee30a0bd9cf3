package plan

import (
	"fmt"
	"strings"

	"github.com/xtding233/relic-planner/internal/relic"
)

// Validate checks a document without looking at any catalog.
func Validate(doc Document) error {
	var errs []string

	if doc.Defaults.Run != "" {
		if _, err := relic.ParseRun(doc.Defaults.Run); err != nil {
			errs = append(errs, fmt.Sprintf("defaults.run: %v", err))
		}
	}
	if doc.Defaults.Amount != nil && *doc.Defaults.Amount < 1 {
		errs = append(errs, "defaults.amount must be >= 1")
	}

	seen := make(map[string]bool, len(doc.Relics))
	for i, e := range doc.Relics {
		if e.Name == "" {
			errs = append(errs, fmt.Sprintf("relics[%d].name is required", i))
		} else if seen[e.Name] {
			errs = append(errs, fmt.Sprintf("relics[%d].name %q is listed twice", i, e.Name))
		}
		seen[e.Name] = true

		if e.Run != "" {
			if _, err := relic.ParseRun(e.Run); err != nil {
				errs = append(errs, fmt.Sprintf("relics[%d].run: %v", i, err))
			}
		}
		if e.Amount != nil && *e.Amount < 1 {
			errs = append(errs, fmt.Sprintf("relics[%d].amount must be >= 1", i))
		}
		ordered := make(map[string]bool, len(e.Order))
		for _, item := range e.Order {
			if ordered[item] {
				errs = append(errs, fmt.Sprintf("relics[%d].order lists %q twice", i, item))
			}
			ordered[item] = true
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("plan validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
