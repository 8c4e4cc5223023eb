package tools

import (
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FormatResolution formats a companion lookup outcome as human-readable text.
// An empty companion path is a legitimate "nothing found" outcome, never an
// error.
func FormatResolution(queryPath string, companionPath string) string {
	if companionPath == "" {
		return fmt.Sprintf("No companion found for %s.", queryPath)
	}
	return fmt.Sprintf("Companion for %s:\n  %s", queryPath, companionPath)
}

// absolutePath anchors a possibly root-relative path at the project root.
func absolutePath(rootDir string, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(rootDir, filepath.FromSlash(path))
}

// textResult wraps plain text in a tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult wraps an error message in a tool result flagged as an error.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + text}},
		IsError: true,
	}
}
