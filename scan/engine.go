// Package scan implements the fallback tree search: find a source file that
// textually includes a given header, anywhere under the header's directory.
package scan

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/hbertolt/companion-mcp/classify"
)

// IgnoreChecker lets the walk skip paths that are never worth scanning.
type IgnoreChecker interface {
	ShouldSkip(absolutePath string) bool
	ShouldSkipDir(absolutePath string) bool
	IsFileTooLarge(fileSize int64) bool
}

// Options configures an Engine.
type Options struct {
	// Matcher prunes ignored paths from the walk. Optional.
	Matcher IgnoreChecker
	// FileGlob restricts candidate files to those whose project-relative
	// path matches a doublestar pattern. Optional.
	FileGlob string
	// Workers bounds the number of concurrent file scanners (default 8).
	Workers int
	// Logger receives debug output for skipped and failed files. Optional.
	Logger *slog.Logger
}

// Result is the single terminal event of a search stream. An empty Path with
// a nil Err means the scan completed without finding a referencing file.
type Result struct {
	Path string
	Err  error
}

// Engine searches a subtree for source files referencing a header.
// Stateless across calls; concurrent searches share nothing.
type Engine struct {
	matcher  IgnoreChecker
	fileGlob string
	workers  int
	logger   *slog.Logger
}

const defaultWorkers = 8

// NewEngine creates a search engine with the given options.
func NewEngine(options Options) *Engine {
	e := &Engine{
		matcher:  options.Matcher,
		fileGlob: options.FileGlob,
		workers:  options.Workers,
		logger:   options.Logger,
	}
	if e.workers <= 0 {
		e.workers = defaultWorkers
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// FindFirst returns the first source file under the header's own directory
// whose content includes the header, in scan-emission order. The order is
// whatever the directory walk produces; when several files reference the
// header, which one wins is unspecified. Returns ("", nil) when no file
// references the header, and a non-nil error only when the scan itself could
// not run (bad pattern, cancelled context).
//
// The first accepted match cancels the remaining walk and all in-flight
// workers before returning.
func (e *Engine) FindFirst(ctx context.Context, header string, projectRoot string) (string, error) {
	pattern, err := buildPattern(header, projectRoot)
	if err != nil {
		return "", err
	}
	if e.fileGlob != "" && !doublestar.ValidatePattern(e.fileGlob) {
		return "", fmt.Errorf("invalid file glob: %s", e.fileGlob)
	}

	headerAbs := filepath.Clean(header)
	searchRoot := filepath.Dir(headerAbs)

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(scanCtx)
	jobs := make(chan string)

	var once sync.Once
	var found string
	accept := func(path string) {
		once.Do(func() {
			found = path
			cancel()
		})
	}

	// Producer: walk the header's subtree, feeding candidate source files.
	group.Go(func() error {
		defer close(jobs)
		return filepath.WalkDir(searchRoot, func(path string, d fs.DirEntry, walkErr error) error {
			if groupCtx.Err() != nil {
				return filepath.SkipAll
			}
			if walkErr != nil {
				return nil
			}
			if d.IsDir() {
				if path != searchRoot && e.matcher != nil && e.matcher.ShouldSkipDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !e.isCandidate(path, projectRoot, d) {
				return nil
			}
			select {
			case jobs <- path:
			case <-groupCtx.Done():
				return filepath.SkipAll
			}
			return nil
		})
	})

	// Workers: scan candidate files line by line.
	for range e.workers {
		group.Go(func() error {
			for path := range jobs {
				if groupCtx.Err() != nil {
					continue // drain remaining jobs after cancellation
				}
				if e.fileIncludesHeader(path, pattern, headerAbs) {
					accept(path)
				}
			}
			return nil
		})
	}

	scanErr := group.Wait()

	if found != "" {
		return found, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	return "", scanErr
}

// Stream runs the search in the background and emits exactly one Result
// before closing the channel. Cancelling ctx terminates the walk and all
// workers; the cancellation surfaces as Result.Err. Each call starts a fresh
// scan; streams are not resumable.
func (e *Engine) Stream(ctx context.Context, header string, projectRoot string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		path, err := e.FindFirst(ctx, header, projectRoot)
		out <- Result{Path: path, Err: err}
	}()
	return out
}

// isCandidate filters walk entries down to scannable source files.
func (e *Engine) isCandidate(path string, projectRoot string, d fs.DirEntry) bool {
	if !d.Type().IsRegular() {
		return false
	}
	if classify.Classify(path) != classify.RoleSource {
		return false
	}
	if e.matcher != nil {
		if e.matcher.ShouldSkip(path) {
			return false
		}
		if info, err := d.Info(); err != nil || e.matcher.IsFileTooLarge(info.Size()) {
			return false
		}
	}
	if e.fileGlob != "" {
		relPath, err := filepath.Rel(projectRoot, path)
		if err != nil {
			return false
		}
		matched, err := doublestar.Match(e.fileGlob, filepath.ToSlash(relPath))
		if err != nil || !matched {
			return false
		}
	}
	return true
}

// fileIncludesHeader reports whether any line of the file is an include
// directive referencing the header. Ascent-style includes are resolved
// against the file's own directory and must land exactly on the header.
func (e *Engine) fileIncludesHeader(path string, pattern *regexp.Regexp, headerAbs string) bool {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Debug("skipped unreadable file", "path", path, "error", err)
		return false
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	if sniff, _ := reader.Peek(512); isBinaryContent(sniff) {
		return false
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := pattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if m[1] == "" {
			// Root-relative branch: already anchored, no resolution needed.
			return true
		}
		resolved := filepath.Clean(filepath.Join(filepath.Dir(path), filepath.FromSlash(m[1])))
		if resolved == headerAbs {
			return true
		}
	}
	return false
}
