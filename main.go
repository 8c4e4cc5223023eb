package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hbertolt/companion-mcp/cache"
	"github.com/hbertolt/companion-mcp/companion"
	"github.com/hbertolt/companion-mcp/ignore"
	"github.com/hbertolt/companion-mcp/register"
	"github.com/hbertolt/companion-mcp/scan"
	"github.com/hbertolt/companion-mcp/server"
	"github.com/hbertolt/companion-mcp/tools"
	"github.com/hbertolt/companion-mcp/watcher"
)

// excludePatterns is a repeatable CLI flag for custom ignore patterns.
type excludePatterns []string

func (e *excludePatterns) String() string { return strings.Join(*e, ", ") }
func (e *excludePatterns) Set(value string) error {
	*e = append(*e, value)
	return nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "register" {
		serverName := "companion"
		if exe, err := os.Executable(); err == nil {
			serverName = register.DeriveServerName(exe)
		}
		if err := register.Run(serverName, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Parse CLI flags
	var rootDir string
	var searchTimeout time.Duration
	var maxFileSizeBytes int64
	var scanGlob string
	var scanWorkers int
	var logLevel string
	var logFile string
	var noCache bool
	var excludes excludePatterns

	flag.StringVar(&rootDir, "root", "", "Project root directory (default: current working directory)")
	flag.DurationVar(&searchTimeout, "timeout", companion.DefaultSearchTimeout, "Fallback content search timeout")
	flag.Var(&excludes, "exclude", "Extra ignore pattern (repeatable)")
	flag.StringVar(&scanGlob, "scan-glob", "", "Restrict fallback search candidates to a glob (e.g. **/*.m)")
	flag.Int64Var(&maxFileSizeBytes, "max-file-size", ignore.DefaultMaxFileSize, "Maximum file size in bytes the fallback search will open")
	flag.IntVar(&scanWorkers, "scan-workers", 8, "Concurrent file scanners for the fallback search")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: companion-mcp.log in the project root)")
	flag.BoolVar(&noCache, "no-cache", false, "Disable result caching and the file watcher")
	flag.Parse()

	// Resolve root directory
	if rootDir == "" {
		var err error
		rootDir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
			os.Exit(1)
		}
	}
	rootDir, _ = filepath.Abs(rootDir)

	if logFile == "" {
		logFile = filepath.Join(rootDir, "companion-mcp.log")
	}

	// Logger always writes to file or stderr, never stdout - stdout is for MCP stdio
	logger := setupLogger(logLevel, logFile)

	logger.Info("starting companion-mcp",
		"root", rootDir,
		"timeout", searchTimeout,
		"scanGlob", scanGlob,
	)

	startTime := time.Now()

	ignoreMatcher := ignore.NewMatcher(ignore.Options{
		RootDir:          rootDir,
		CustomPatterns:   excludes,
		MaxFileSizeBytes: maxFileSizeBytes,
	})

	engine := scan.NewEngine(scan.Options{
		Matcher:  ignoreMatcher,
		FileGlob: scanGlob,
		Workers:  scanWorkers,
		Logger:   logger,
	})

	resolver := companion.NewResolver(companion.Options{
		Engine:        engine,
		SearchTimeout: searchTimeout,
		Logger:        logger,
	})

	// The cache only stays correct while the watcher can invalidate it, so
	// both are enabled and disabled together.
	var resultCache *cache.Cache
	if !noCache {
		fileWatcher, err := watcher.NewWatcher(rootDir, ignoreMatcher, logger)
		if err != nil {
			logger.Warn("failed to start file watcher, continuing without result caching", "error", err)
		} else {
			resultCache = cache.New()
			go fileWatcher.Start()
			go handleChanges(fileWatcher, ignoreMatcher, resultCache, logger)
			defer fileWatcher.Close()
		}
	}

	headerHandler := &tools.HeaderHandler{
		Resolver: resolver,
		Cache:    resultCache,
		RootDir:  rootDir,
		Logger:   logger,
	}
	sourceHandler := &tools.SourceHandler{
		Resolver: resolver,
		Cache:    resultCache,
		RootDir:  rootDir,
		Logger:   logger,
	}
	statusHandler := &tools.StatusHandler{
		Resolver:  resolver,
		Cache:     resultCache,
		StartTime: startTime,
		RootDir:   rootDir,
		Logger:    logger,
	}

	mcpServer := server.Setup(headerHandler, sourceHandler, statusHandler)

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// handleChanges flushes the resolution cache on every debounced change batch
// and reloads ignore rules when .gitignore itself changed.
func handleChanges(
	fileWatcher *watcher.Watcher,
	ignoreMatcher *ignore.Matcher,
	resultCache *cache.Cache,
	logger *slog.Logger,
) {
	for batch := range fileWatcher.Changes() {
		for _, path := range batch {
			if filepath.Base(path) == ".gitignore" {
				ignoreMatcher.Reload()
				logger.Info("reloaded ignore rules")
				break
			}
		}
		resultCache.Flush()
		logger.Debug("flushed resolution cache", "changes", len(batch))
	}
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
