package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hbertolt/companion-mcp/tools"
)

// Setup creates and configures the MCP server with all tool registrations.
func Setup(
	headerHandler *tools.HeaderHandler,
	sourceHandler *tools.SourceHandler,
	statusHandler *tools.StatusHandler,
) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "companion-mcp",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server resolves companion files in C, C++, and Objective-C projects: the header belonging to a source file, or the implementation belonging to a header. No build system or compile database is required.

Use these tools when navigating between declarations and implementations:
- companion_header finds the header for a source file (same directory, then the Sources/Headers framework layout)
- companion_source finds the implementation for a header (same directory, then a bounded content search for files that #include it)
- "No companion found" is a normal outcome, not a failure`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "companion_header",
		Description: `Find the header file for a source file.

Lookup order:
  1. A header with the same basename in the source file's directory.
  2. The framework convention: for Fwk/Sources/Fwk/Sub/Foo.m, check Fwk/Headers/Sub/ then Fwk/PrivateHeaders/Sub/.`,
	}, headerHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "companion_source",
		Description: `Find the implementation file for a header.

Lookup order:
  1. A source file with the same basename in the header's directory.
  2. A timeout-bounded search of the header's subtree for source files whose #include/#import directives reference it.`,
	}, sourceHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "companion_status",
		Description: "Show server status: project root, uptime, search timeout, and cache size.",
	}, statusHandler.Handle)

	return mcpServer
}
