// Package register implements the self-registration subcommand that adds
// this server to an MCP client configuration file.
package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

type serverEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Run executes the register subcommand. args is everything after "register":
// a scope ("project" or "user"), an optional project directory, and server
// flags after a "--" separator.
func Run(serverName string, args []string) error {
	if len(args) == 0 {
		return usageError()
	}

	scope := args[0]
	if scope != "project" && scope != "user" {
		return usageError()
	}

	directory := "."
	rest := args[1:]
	if scope == "project" && len(rest) > 0 && rest[0] != "--" {
		directory = rest[0]
		rest = rest[1:]
	}
	var serverArgs []string
	for i, arg := range rest {
		if arg == "--" {
			serverArgs = rest[i+1:]
			break
		}
	}

	binaryPath, err := detectBinaryPath()
	if err != nil {
		return fmt.Errorf("detecting binary path: %w", err)
	}

	configPath, err := resolveConfigPath(scope, directory)
	if err != nil {
		return err
	}

	if err := writeConfig(configPath, serverName, buildEntry(binaryPath, serverArgs)); err != nil {
		return err
	}

	fmt.Printf("Registered %q in %s\n", serverName, configPath)
	return nil
}

func usageError() error {
	binaryName := filepath.Base(os.Args[0])
	return fmt.Errorf(`usage:
  %[1]s register project [directory]  # → <directory>/.mcp.json (default: .)
  %[1]s register user                 # → ~/.claude.json
  %[1]s register project . -- --flag  # forward args to server`, binaryName)
}

// DeriveServerName extracts a server name from a binary path by stripping
// .exe and -mcp suffixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}

func resolveConfigPath(scope string, directory string) (string, error) {
	if scope == "project" {
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), nil
}

func buildEntry(binaryPath string, serverArgs []string) serverEntry {
	if runtime.GOOS == "windows" {
		return serverEntry{
			Command: "cmd",
			Args:    append([]string{"/C", binaryPath}, serverArgs...),
		}
	}
	return serverEntry{Command: binaryPath, Args: serverArgs}
}

// writeConfig merges the server entry into the config file's mcpServers map,
// writing atomically via a temp file in the same directory.
func writeConfig(configPath string, serverName string, entry serverEntry) error {
	config := map[string]interface{}{
		"mcpServers": map[string]interface{}{},
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	}

	servers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		if _, exists := config["mcpServers"]; exists {
			return fmt.Errorf("mcpServers in %s is not an object", configPath)
		}
		servers = map[string]interface{}{}
		config["mcpServers"] = servers
	}
	servers[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	tmpFile, err := os.CreateTemp(filepath.Dir(configPath), ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(output); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, configPath, err)
	}

	return nil
}
