package classify

import (
	"path/filepath"
	"strings"
)

// FileRole categorizes a file as a header, an implementation source, or neither.
type FileRole int

const (
	RoleOther FileRole = iota
	RoleHeader
	RoleSource
)

func (r FileRole) String() string {
	switch r {
	case RoleHeader:
		return "header"
	case RoleSource:
		return "source"
	default:
		return "other"
	}
}

// headerExtensions maps extensions (without dot) that identify header files.
var headerExtensions = map[string]bool{
	"h":   true,
	"hh":  true,
	"hpp": true,
	"hxx": true,
	"h++": true,
	"pch": true,
	"ipp": true,
}

// sourceExtensions maps extensions (without dot) that identify implementation files.
var sourceExtensions = map[string]bool{
	"c":   true,
	"cc":  true,
	"cpp": true,
	"cxx": true,
	"c++": true,
	"m":   true,
	"mm":  true,
}

// Classify returns the FileRole for a file path based on its extension.
// Unknown extensions classify as RoleOther.
func Classify(filePath string) FileRole {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	if ext == "" {
		return RoleOther
	}
	if headerExtensions[ext] {
		return RoleHeader
	}
	if sourceExtensions[ext] {
		return RoleSource
	}
	return RoleOther
}

// BasenameOf returns the file's name with its role extension stripped.
// Companion files pair on equal basenames: "Foo.m" and "Foo.h" both yield "Foo".
// For RoleOther files the last extension is stripped generically, so
// "config.yaml" yields "config".
func BasenameOf(filePath string) string {
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}
