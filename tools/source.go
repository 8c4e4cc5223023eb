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

// SourceArgs defines the input parameters for the companion_source tool.
type SourceArgs struct {
	HeaderPath string `json:"headerPath" jsonschema:"Path of the header file (.h, .hpp, ...). Absolute, or relative to the project root"`
}

// SourceHandler resolves the implementation companion of a header file. When
// no same-directory companion exists it falls back to a timeout-bounded
// content search of the header's subtree.
type SourceHandler struct {
	Resolver *companion.Resolver
	Cache    *cache.Cache // nil disables caching
	RootDir  string
	Logger   *slog.Logger
}

// Handle processes a companion_source request.
func (h *SourceHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SourceArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.HeaderPath == "" {
		h.Logger.Warn("companion_source called with empty headerPath")
		return errorResult("headerPath parameter is required"), nil, nil
	}

	headerPath := absolutePath(h.RootDir, args.HeaderPath)
	cacheKey := "source-for-header:" + headerPath

	if h.Cache != nil {
		if found, ok := h.Cache.Get(cacheKey); ok {
			return textResult(FormatResolution(headerPath, found)), nil, nil
		}
	}

	found, err := h.Resolver.FindSourceForHeader(ctx, headerPath, h.RootDir)
	if err != nil {
		h.Logger.Error("companion_source failed", "headerPath", headerPath, "error", err)
		return errorResult(fmt.Sprintf("resolution failed: %v", err)), nil, nil
	}

	if h.Cache != nil && found != "" {
		h.Cache.Put(cacheKey, found)
	}

	h.Logger.Info("companion_source",
		"headerPath", headerPath,
		"found", found != "",
		"elapsed", time.Since(start),
	)

	return textResult(FormatResolution(headerPath, found)), nil, nil
}
