// Package companion resolves the counterpart of a source-code file: the
// header a source file declares itself in, or the source file implementing a
// header. Resolution is a fresh, stateless query every time; nothing is
// indexed or cached here.
package companion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hbertolt/companion-mcp/classify"
	"github.com/hbertolt/companion-mcp/framework"
	"github.com/hbertolt/companion-mcp/scan"
)

// DefaultSearchTimeout bounds the fallback tree search in FindSourceForHeader.
const DefaultSearchTimeout = 15 * time.Second

// Options configures a Resolver.
type Options struct {
	// Engine runs the fallback tree search. A default engine with no ignore
	// rules is created when nil.
	Engine *scan.Engine
	// SearchTimeout caps the fallback search (default DefaultSearchTimeout).
	SearchTimeout time.Duration
	// Logger receives diagnostics for degraded searches. Optional.
	Logger *slog.Logger
}

// Resolver answers companion-file queries. Safe for concurrent use; every
// query is independent and shares no mutable state.
type Resolver struct {
	engine  *scan.Engine
	timeout time.Duration
	logger  *slog.Logger
}

// NewResolver creates a resolver with the given options.
func NewResolver(options Options) *Resolver {
	r := &Resolver{
		engine:  options.Engine,
		timeout: options.SearchTimeout,
		logger:  options.Logger,
	}
	if r.engine == nil {
		r.engine = scan.NewEngine(scan.Options{})
	}
	if r.timeout <= 0 {
		r.timeout = DefaultSearchTimeout
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// FindHeaderForSource returns the header file matching a source file, or ""
// when none exists. It probes the source's own directory first, then the
// framework convention's Headers and PrivateHeaders trees (public headers
// win). Errors only on invalid input.
func (r *Resolver) FindHeaderForSource(sourcePath string) (string, error) {
	if err := validatePath("sourcePath", sourcePath); err != nil {
		return "", err
	}

	dir := filepath.Dir(sourcePath)
	basename := classify.BasenameOf(sourcePath)

	if found := probe(dir, basename, classify.RoleHeader); found != "" {
		return found, nil
	}

	structure := framework.StructureFor(dir)
	if structure == nil {
		return "", nil
	}
	for _, headerDir := range structure.HeaderDirs() {
		if found := probe(headerDir, basename, classify.RoleHeader); found != "" {
			return found, nil
		}
	}
	return "", nil
}

// FindSourceForHeader returns a source file that implements or includes the
// header, or "" when none is found. The header's own directory is probed
// first; otherwise the tree search runs under the header's subtree, bounded
// by the resolver's timeout. Timeouts and scan failures degrade to "" —
// only invalid input returns an error.
func (r *Resolver) FindSourceForHeader(ctx context.Context, headerPath string, projectRoot string) (string, error) {
	if err := r.validateHeaderQuery(headerPath, projectRoot); err != nil {
		return "", err
	}

	if found := probe(filepath.Dir(headerPath), classify.BasenameOf(headerPath), classify.RoleSource); found != "" {
		return found, nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	found, err := r.engine.FindFirst(searchCtx, headerPath, projectRoot)
	if err != nil {
		// Degraded, not fatal: the caller sees "no companion found".
		r.logger.Warn("fallback search did not complete",
			"header", headerPath,
			"error", err,
		)
		return "", nil
	}
	return found, nil
}

// FindIncludingSourceFile exposes the fallback search as a lazy stream: the
// returned channel emits exactly one terminal result (possibly empty) and
// closes. Cancelling ctx terminates the underlying walk and its workers.
// Each call starts a fresh scan.
func (r *Resolver) FindIncludingSourceFile(ctx context.Context, headerPath string, projectRoot string) (<-chan scan.Result, error) {
	if err := r.validateHeaderQuery(headerPath, projectRoot); err != nil {
		return nil, err
	}
	return r.engine.Stream(ctx, headerPath, projectRoot), nil
}

// SearchTimeout reports the configured fallback search deadline.
func (r *Resolver) SearchTimeout() time.Duration {
	return r.timeout
}

// validateHeaderQuery enforces the input contract for header→source queries:
// absolute paths, header located inside the project root.
func (r *Resolver) validateHeaderQuery(headerPath string, projectRoot string) error {
	if err := validatePath("headerPath", headerPath); err != nil {
		return err
	}
	if err := validatePath("projectRoot", projectRoot); err != nil {
		return err
	}
	rel, err := filepath.Rel(projectRoot, headerPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("headerPath %s is not inside projectRoot %s", headerPath, projectRoot)
	}
	return nil
}

// validatePath rejects empty and relative paths.
func validatePath(name string, path string) error {
	err := validation.Validate(path,
		validation.Required,
		validation.By(func(value interface{}) error {
			if !filepath.IsAbs(value.(string)) {
				return errors.New("must be an absolute path")
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
