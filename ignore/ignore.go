// Package ignore decides which paths the companion search may skip.
package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	gitignore "github.com/denormal/go-gitignore"
)

// Matcher decides whether a path should be excluded from companion searches.
// It combines the default skip patterns, the project's .gitignore, and any
// custom patterns supplied on the command line.
// Thread-safe: Reload takes the write lock, the query methods take read locks.
type Matcher struct {
	mu               sync.RWMutex
	rootDir          string
	gitIgnore        gitignore.GitIgnore
	customPatterns   []string
	maxFileSizeBytes int64
}

// Options configures a Matcher.
type Options struct {
	RootDir          string
	CustomPatterns   []string
	MaxFileSizeBytes int64
}

// DefaultMaxFileSize bounds how large a file the content scan will open.
const DefaultMaxFileSize = 1024 * 1024

// NewMatcher builds a matcher rooted at options.RootDir.
func NewMatcher(options Options) *Matcher {
	m := &Matcher{
		rootDir:          options.RootDir,
		customPatterns:   options.CustomPatterns,
		maxFileSizeBytes: options.MaxFileSizeBytes,
	}
	if m.maxFileSizeBytes <= 0 {
		m.maxFileSizeBytes = DefaultMaxFileSize
	}
	m.gitIgnore = loadGitIgnore(m.rootDir)
	return m
}

// ShouldSkip reports whether the given absolute path is excluded from
// companion searches.
func (m *Matcher) ShouldSkip(absolutePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		relativePath = absolutePath
	}
	relativePath = filepath.ToSlash(relativePath)

	if matchesPatterns(DefaultSkipPatterns, relativePath) {
		return true
	}

	if m.gitIgnore != nil {
		isDir := false
		if info, statErr := os.Stat(absolutePath); statErr == nil {
			isDir = info.IsDir()
		}
		if match := m.gitIgnore.Relative(relativePath, isDir); match != nil && match.Ignore() {
			return true
		}
	}

	return matchesPatterns(m.customPatterns, relativePath)
}

// ShouldSkipDir reports whether a directory should be pruned from the walk.
func (m *Matcher) ShouldSkipDir(absolutePath string) bool {
	// Fast path for directories that are never searched.
	switch filepath.Base(absolutePath) {
	case ".git", ".svn", ".hg", "node_modules", "Pods", "Carthage",
		"DerivedData", "xcuserdata", "__pycache__", ".idea", ".vscode",
		".build", ".cache", ".venv", "venv":
		return true
	}
	return m.ShouldSkip(absolutePath)
}

// IsFileTooLarge reports whether a file exceeds the scan size limit.
func (m *Matcher) IsFileTooLarge(fileSize int64) bool {
	return fileSize > m.maxFileSizeBytes
}

// Reload re-reads the project's .gitignore from disk.
func (m *Matcher) Reload() {
	loaded := loadGitIgnore(m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = loaded
}

// matchesPatterns checks a slash-separated relative path against a pattern
// list. Bare names match any path component; glob patterns match the basename
// and the full relative path.
func matchesPatterns(patterns []string, relativePath string) bool {
	baseName := strings.ToLower(filepath.Base(relativePath))
	lowerPath := strings.ToLower(relativePath)

	for _, pattern := range patterns {
		lowerPattern := strings.ToLower(pattern)

		if !strings.ContainsAny(pattern, "*?[") {
			if baseName == lowerPattern {
				return true
			}
			for _, part := range strings.Split(lowerPath, "/") {
				if part == lowerPattern {
					return true
				}
			}
			continue
		}

		if matched, err := filepath.Match(lowerPattern, baseName); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(lowerPattern, lowerPath); err == nil && matched {
			return true
		}
	}
	return false
}

// loadGitIgnore parses <root>/.gitignore, returning nil when absent.
func loadGitIgnore(rootDir string) gitignore.GitIgnore {
	f, err := os.Open(filepath.Join(rootDir, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()
	return gitignore.New(f, rootDir, nil)
}
