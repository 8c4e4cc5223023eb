package companion

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hbertolt/companion-mcp/scan"
)

func newTestResolver(options Options) *Resolver {
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return NewResolver(options)
}

func Test_FindHeaderForSource_SameDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Foo.m", "Foo.h", "Bar.h")

	r := newTestResolver(Options{})
	got, err := r.FindHeaderForSource(filepath.Join(dir, "Foo.m"))
	if err != nil {
		t.Fatalf("FindHeaderForSource: %v", err)
	}
	if got != filepath.Join(dir, "Foo.h") {
		t.Errorf("got %q, want Foo.h in the same directory", got)
	}
}

func Test_FindHeaderForSource_FrameworkConvention(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"Fwk/Sources/Fwk/Sub/Foo.m",
		"Fwk/Headers/Sub/Foo.h",
	)

	r := newTestResolver(Options{})
	got, err := r.FindHeaderForSource(filepath.Join(root, "Fwk", "Sources", "Fwk", "Sub", "Foo.m"))
	if err != nil {
		t.Fatalf("FindHeaderForSource: %v", err)
	}
	if got != filepath.Join(root, "Fwk", "Headers", "Sub", "Foo.h") {
		t.Errorf("got %q, want Fwk/Headers/Sub/Foo.h", got)
	}
}

func Test_FindHeaderForSource_PublicHeadersWin(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"Fwk/Sources/Fwk/Sub/Foo.m",
		"Fwk/Headers/Sub/Foo.h",
		"Fwk/PrivateHeaders/Sub/Foo.h",
	)

	r := newTestResolver(Options{})
	got, err := r.FindHeaderForSource(filepath.Join(root, "Fwk", "Sources", "Fwk", "Sub", "Foo.m"))
	if err != nil {
		t.Fatalf("FindHeaderForSource: %v", err)
	}
	if got != filepath.Join(root, "Fwk", "Headers", "Sub", "Foo.h") {
		t.Errorf("got %q, want the public Headers tree to win", got)
	}
}

func Test_FindHeaderForSource_PrivateHeadersFallback(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"Fwk/Sources/Fwk/Foo.m",
		"Fwk/PrivateHeaders/Foo.h",
	)

	r := newTestResolver(Options{})
	got, err := r.FindHeaderForSource(filepath.Join(root, "Fwk", "Sources", "Fwk", "Foo.m"))
	if err != nil {
		t.Fatalf("FindHeaderForSource: %v", err)
	}
	if got != filepath.Join(root, "Fwk", "PrivateHeaders", "Foo.h") {
		t.Errorf("got %q, want Fwk/PrivateHeaders/Foo.h", got)
	}
}

func Test_FindHeaderForSource_NotFound(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Foo.m")

	r := newTestResolver(Options{})
	got, err := r.FindHeaderForSource(filepath.Join(dir, "Foo.m"))
	if err != nil {
		t.Fatalf("not-found must not be an error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}

func Test_FindHeaderForSource_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Foo.m", "Foo.h")

	r := newTestResolver(Options{})
	src := filepath.Join(dir, "Foo.m")
	first, err := r.FindHeaderForSource(src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.FindHeaderForSource(src)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("two queries on an unchanged tree differ: %q vs %q", first, second)
	}
}

func Test_FindHeaderForSource_InvalidInput(t *testing.T) {
	r := newTestResolver(Options{})

	if _, err := r.FindHeaderForSource(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := r.FindHeaderForSource("relative/Foo.m"); err == nil {
		t.Error("expected error for relative path")
	}
}

func Test_FindSourceForHeader_SameDirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "lib/Foo.h", "lib/Foo.mm")

	r := newTestResolver(Options{})
	got, err := r.FindSourceForHeader(context.Background(), filepath.Join(root, "lib", "Foo.h"), root)
	if err != nil {
		t.Fatalf("FindSourceForHeader: %v", err)
	}
	if got != filepath.Join(root, "lib", "Foo.mm") {
		t.Errorf("got %q, want lib/Foo.mm", got)
	}
}

func Test_FindSourceForHeader_TreeSearchFallback(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "include/x.h")
	impl := filepath.Join(root, "include", "impl", "y.m")
	os.MkdirAll(filepath.Dir(impl), 0755)
	os.WriteFile(impl, []byte("#include \"include/x.h\"\n"), 0644)

	r := newTestResolver(Options{})
	got, err := r.FindSourceForHeader(context.Background(), filepath.Join(root, "include", "x.h"), root)
	if err != nil {
		t.Fatalf("FindSourceForHeader: %v", err)
	}
	if got != impl {
		t.Errorf("got %q, want the including file %q", got, impl)
	}
}

func Test_FindSourceForHeader_NoCompanionWithinTimeout(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "lib/Foo.h", "lib/other.m")

	r := newTestResolver(Options{SearchTimeout: 2 * time.Second})
	start := time.Now()
	got, err := r.FindSourceForHeader(context.Background(), filepath.Join(root, "lib", "Foo.h"), root)
	if err != nil {
		t.Fatalf("not-found must not be an error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("resolution took %v, expected completion well within the timeout", elapsed)
	}
}

func Test_FindSourceForHeader_ScanFailureDegradesToNotFound(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "lib/Foo.h")

	// An invalid glob makes every fallback scan fail outright.
	broken := scan.NewEngine(scan.Options{FileGlob: "[unclosed"})
	r := newTestResolver(Options{Engine: broken})

	got, err := r.FindSourceForHeader(context.Background(), filepath.Join(root, "lib", "Foo.h"), root)
	if err != nil {
		t.Fatalf("scan failure must not surface as an error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}

func Test_FindSourceForHeader_InvalidInput(t *testing.T) {
	root := t.TempDir()
	r := newTestResolver(Options{})
	ctx := context.Background()

	if _, err := r.FindSourceForHeader(ctx, "", root); err == nil {
		t.Error("expected error for empty header path")
	}
	if _, err := r.FindSourceForHeader(ctx, filepath.Join(root, "x.h"), "relative-root"); err == nil {
		t.Error("expected error for relative project root")
	}
	outside := filepath.Join(t.TempDir(), "x.h")
	if _, err := r.FindSourceForHeader(ctx, outside, root); err == nil {
		t.Error("expected error for header outside project root")
	}
}

func Test_FindIncludingSourceFile_StreamsOneResult(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "include/x.h")
	impl := filepath.Join(root, "include", "y.mm")
	os.WriteFile(impl, []byte("#import <include/x.h>\n"), 0644)

	r := newTestResolver(Options{})
	stream, err := r.FindIncludingSourceFile(context.Background(), filepath.Join(root, "include", "x.h"), root)
	if err != nil {
		t.Fatalf("FindIncludingSourceFile: %v", err)
	}

	result, ok := <-stream
	if !ok {
		t.Fatal("expected one result before close")
	}
	if result.Err != nil || result.Path != impl {
		t.Errorf("got %+v, want path %q", result, impl)
	}
	if _, ok := <-stream; ok {
		t.Error("expected stream to close after one result")
	}
}

func Test_FindIncludingSourceFile_InvalidInput(t *testing.T) {
	r := newTestResolver(Options{})
	if _, err := r.FindIncludingSourceFile(context.Background(), "x.h", "/root"); err == nil {
		t.Error("expected error for relative header path")
	}
}

func Test_SearchTimeout_Default(t *testing.T) {
	r := newTestResolver(Options{})
	if r.SearchTimeout() != DefaultSearchTimeout {
		t.Errorf("default timeout = %v, want %v", r.SearchTimeout(), DefaultSearchTimeout)
	}
}
