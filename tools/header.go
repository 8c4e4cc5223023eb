package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hbertolt/companion-mcp/cache"
	"github.com/hbertolt/companion-mcp/companion"
)

// HeaderArgs defines the input parameters for the companion_header tool.
type HeaderArgs struct {
	SourcePath string `json:"sourcePath" jsonschema:"Path of the source file (.c, .cpp, .m, .mm, ...). Absolute, or relative to the project root"`
}

// HeaderHandler resolves the header companion of a source file.
type HeaderHandler struct {
	Resolver *companion.Resolver
	Cache    *cache.Cache // nil disables caching
	RootDir  string
	Logger   *slog.Logger
}

// Handle processes a companion_header request.
func (h *HeaderHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args HeaderArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.SourcePath == "" {
		h.Logger.Warn("companion_header called with empty sourcePath")
		return errorResult("sourcePath parameter is required"), nil, nil
	}

	sourcePath := absolutePath(h.RootDir, args.SourcePath)
	cacheKey := "header-for-source:" + sourcePath

	if h.Cache != nil {
		if found, ok := h.Cache.Get(cacheKey); ok {
			return textResult(FormatResolution(sourcePath, found)), nil, nil
		}
	}

	found, err := h.Resolver.FindHeaderForSource(sourcePath)
	if err != nil {
		h.Logger.Error("companion_header failed", "sourcePath", sourcePath, "error", err)
		return errorResult(fmt.Sprintf("resolution failed: %v", err)), nil, nil
	}

	if h.Cache != nil && found != "" {
		h.Cache.Put(cacheKey, found)
	}

	h.Logger.Info("companion_header",
		"sourcePath", sourcePath,
		"found", found != "",
		"elapsed", time.Since(start),
	)

	return textResult(FormatResolution(sourcePath, found)), nil, nil
}
