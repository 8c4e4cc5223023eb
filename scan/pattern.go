package scan

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// buildPattern compiles the include-directive pattern for a header.
//
// A line matches when it is entirely an include or import directive whose
// target is either the header's path relative to the project root (already
// anchored, accepted as-is) or a parent-directory ascent ending in the
// header's filename (captured in group 1 for resolution against the matching
// file's own directory). The ascent branch deliberately over-matches paths
// with intermediate components; the caller validates the resolved path
// against the real header location.
//
// Example for header <root>/a/b/x.h:
//
//	#include "a/b/x.h"      root-relative, accepted unconditionally
//	#import <../../a/x.h>   ascent, must resolve back to the header
func buildPattern(header string, projectRoot string) (*regexp.Regexp, error) {
	relToRoot, err := filepath.Rel(projectRoot, header)
	if err != nil {
		return nil, fmt.Errorf("relating header to project root: %w", err)
	}
	relToRoot = filepath.ToSlash(relToRoot)
	if strings.HasPrefix(relToRoot, "../") {
		return nil, fmt.Errorf("header %s is outside project root %s", header, projectRoot)
	}

	fileName := filepath.Base(header)

	expr := `^[ \t]*#[ \t]*(?:include|import)[ \t]+["<](?:` +
		regexp.QuoteMeta(relToRoot) +
		`|((?:\.\./)+[^"<>]*` + regexp.QuoteMeta(fileName) + `)` +
		`)[">][ \t]*$`

	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling include pattern: %w", err)
	}
	return pattern, nil
}
