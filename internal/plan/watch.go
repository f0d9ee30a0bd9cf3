package plan

import (
	"context"
	"os"
	"time"
)

// Watcher polls the plan files of a Loader and reports, once per tick, the
// files that were created, modified or removed since the previous scan.
type Watcher struct {
	paths    []string
	interval time.Duration
	onChange func(changed []string)
	mtimes   map[string]time.Time
}

// NewWatcher watches paths every interval. onChange runs on the Run
// goroutine.
func NewWatcher(paths []string, interval time.Duration, onChange func(changed []string)) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{
		paths:    paths,
		interval: interval,
		onChange: onChange,
		mtimes:   make(map[string]time.Time),
	}
}

// Run scans until ctx is done. The first scan only records mtimes.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.scan()
	for {
		select {
		case <-ticker.C:
			if changed := w.scan(); len(changed) > 0 && w.onChange != nil {
				w.onChange(changed)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) scan() []string {
	var changed []string
	for _, p := range w.paths {
		last, seen := w.mtimes[p]
		fi, err := os.Stat(p)
		if err != nil {
			if seen {
				delete(w.mtimes, p)
				changed = append(changed, p)
			}
			continue
		}
		mt := fi.ModTime()
		w.mtimes[p] = mt
		if !seen || !mt.Equal(last) {
			changed = append(changed, p)
		}
	}
	return changed
}
