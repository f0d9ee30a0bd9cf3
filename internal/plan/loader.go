package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths helper for default/plan files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "plans", "default.yaml")
}
func (p Paths) PlanPath(name string) string {
	return filepath.Join(p.BaseDir, "plans", name+".yaml")
}

// Loader reads YAML plans and merges default → plan.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]Document // key: plan name
}

// NewLoader creates a plan loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]Document),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads the default plan and the named plan and merges them.
// The default file is optional; the named plan is not.
func (l *Loader) LoadMerged(name string) (Document, error) {
	l.mu.RLock()
	if doc, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return doc, nil
	}
	l.mu.RUnlock()

	defDoc, err := readYAML(l.paths.DefaultPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Document{}, fmt.Errorf("read default: %w", err)
	}
	doc, err := readYAML(l.paths.PlanPath(name))
	if err != nil {
		return Document{}, fmt.Errorf("read plan %q: %w", name, err)
	}
	merged := Merge(defDoc, doc)

	l.mu.Lock()
	l.cache[name] = merged
	l.mu.Unlock()

	return merged, nil
}

// Invalidate clears loader's cache. Call after the watcher detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]Document)
}

// Decode parses a plan document from YAML (or JSON, a YAML subset).
func Decode(b []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Document{}, fmt.Errorf("decode plan: %w", err)
	}
	return doc, nil
}

func readYAML(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	doc, err := Decode(b)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Merge overlays b on a: b's non-empty scalars win and a non-empty relic
// list in b replaces a's.
func Merge(a, b Document) Document {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.Defaults.Run != "" {
		out.Defaults.Run = b.Defaults.Run
	}
	if b.Defaults.Amount != nil {
		n := *b.Defaults.Amount
		out.Defaults.Amount = &n
	}
	if len(b.Relics) > 0 {
		out.Relics = append([]RelicEntry(nil), b.Relics...)
	}
	return out
}
