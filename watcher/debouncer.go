package watcher

import (
	"sync"
	"time"
)

// Debouncer collects changed paths and emits them as one batch after a quiet
// period. Repeated events for the same path within the window collapse into
// a single entry.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	pending  map[string]struct{}
	timer    *time.Timer
	output   chan []string
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]struct{}),
		output:   make(chan []string, 16),
	}
}

// Output returns the channel receiving batched changed paths.
func (d *Debouncer) Output() <-chan []string {
	return d.output
}

// Add records a changed path and restarts the quiet-period timer.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pending) == 0 {
		return
	}

	batch := make([]string, 0, len(d.pending))
	for path := range d.pending {
		batch = append(batch, path)
	}
	d.pending = make(map[string]struct{})

	d.output <- batch
}
