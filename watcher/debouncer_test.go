package watcher

import (
	"sort"
	"testing"
	"time"
)

const testInterval = 50 * time.Millisecond

func receiveBatch(t *testing.T, d *Debouncer, timeout time.Duration) []string {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for debouncer batch")
		return nil
	}
}

func Test_Debouncer_CollapsesDuplicatePaths(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("/proj/Foo.m")
	d.Add("/proj/Foo.m")
	d.Add("/proj/Bar.h")

	batch := receiveBatch(t, d, time.Second)
	sort.Strings(batch)

	if len(batch) != 2 {
		t.Fatalf("batch size = %d, want 2 (duplicates collapsed)", len(batch))
	}
	if batch[0] != "/proj/Bar.h" || batch[1] != "/proj/Foo.m" {
		t.Errorf("unexpected batch contents: %v", batch)
	}
}

func Test_Debouncer_SeparateQuietPeriods(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("/proj/a.m")
	first := receiveBatch(t, d, time.Second)
	if len(first) != 1 || first[0] != "/proj/a.m" {
		t.Fatalf("unexpected first batch: %v", first)
	}

	d.Add("/proj/b.m")
	second := receiveBatch(t, d, time.Second)
	if len(second) != 1 || second[0] != "/proj/b.m" {
		t.Fatalf("unexpected second batch: %v", second)
	}
}

func Test_Debouncer_NoEventsNoBatch(t *testing.T) {
	d := NewDebouncer(testInterval)

	select {
	case batch := <-d.Output():
		t.Fatalf("unexpected batch without events: %v", batch)
	case <-time.After(3 * testInterval):
	}
}
