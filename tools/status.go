package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hbertolt/companion-mcp/cache"
	"github.com/hbertolt/companion-mcp/companion"
)

// StatusArgs defines the input parameters for the companion_status tool
// (none required).
type StatusArgs struct{}

// StatusHandler reports server configuration and cache state.
type StatusHandler struct {
	Resolver  *companion.Resolver
	Cache     *cache.Cache // nil when caching is disabled
	StartTime time.Time
	RootDir   string
	Logger    *slog.Logger
}

// Handle processes a companion_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	uptime := time.Since(h.StartTime)

	h.Logger.Info("companion_status", "uptime", uptime)

	var builder strings.Builder
	builder.WriteString("=== companion-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Project root: %s\n", h.RootDir))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Fallback search timeout: %s\n", h.Resolver.SearchTimeout()))
	if h.Cache != nil {
		builder.WriteString(fmt.Sprintf("Cached resolutions: %d\n", h.Cache.Len()))
	} else {
		builder.WriteString("Caching: disabled\n")
	}

	return textResult(builder.String()), nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
