// Package framework detects the Apple framework source layout convention:
// implementation files under <Framework>/Sources/<Framework>/... with their
// public and private headers in sibling Headers/ and PrivateHeaders/ trees.
package framework

import (
	"path/filepath"
	"strings"
)

const sourcesSegment = "Sources"

// Structure describes a directory's position inside a framework layout.
type Structure struct {
	// Path is the framework root, up to and including the segment that is
	// the parent of the Sources folder.
	Path string
	// Name is the framework name, the path segment that parents Sources.
	Name string
	// SubFolder is the path below Sources/<name> down to the probed
	// directory, empty when the directory is Sources/<name> itself.
	SubFolder string
}

// StructureFor inspects dir's path segments for the framework convention.
// It scans from the deepest segment for a component literally equal to
// "Sources" and returns nil when none exists or when Sources has no parent
// segment to serve as the framework name. Pure string computation, no I/O.
func StructureFor(dir string) *Structure {
	cleaned := filepath.Clean(dir)
	segments := strings.Split(filepath.ToSlash(cleaned), "/")

	sourcesIdx := -1
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == sourcesSegment {
			sourcesIdx = i
			break
		}
	}
	if sourcesIdx <= 0 || segments[sourcesIdx-1] == "" {
		return nil
	}

	frameworkPath := strings.Join(segments[:sourcesIdx], "/")
	subFolder := ""
	if sourcesIdx+2 <= len(segments)-1 {
		subFolder = strings.Join(segments[sourcesIdx+2:], "/")
	}

	return &Structure{
		Path:      filepath.FromSlash(frameworkPath),
		Name:      segments[sourcesIdx-1],
		SubFolder: filepath.FromSlash(subFolder),
	}
}

// HeaderDirs returns the directories where the framework convention places
// headers for files under this structure, public Headers first.
func (s *Structure) HeaderDirs() []string {
	return []string{
		filepath.Join(s.Path, "Headers", s.SubFolder),
		filepath.Join(s.Path, "PrivateHeaders", s.SubFolder),
	}
}
