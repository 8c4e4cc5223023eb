package register

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func Test_DeriveServerName(t *testing.T) {
	tests := []struct {
		binaryPath string
		want       string
	}{
		{"companion-mcp", "companion"},
		{"companion-mcp.exe", "companion"},
		{"/usr/local/bin/companion-mcp", "companion"},
		{"myserver", "myserver"},
		{"myserver.exe", "myserver"},
	}
	for _, tt := range tests {
		if got := DeriveServerName(tt.binaryPath); got != tt.want {
			t.Errorf("DeriveServerName(%q) = %q, want %q", tt.binaryPath, got, tt.want)
		}
	}
}

func readServers(t *testing.T, configPath string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	var config map[string]interface{}
	if err := json.Unmarshal(data, &config); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	servers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		t.Fatal("mcpServers not found or not an object")
	}
	return servers
}

func Test_writeConfig_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")

	entry := serverEntry{Command: "/usr/bin/companion-mcp", Args: []string{"-root", "/tmp"}}
	if err := writeConfig(configPath, "companion", entry); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}

	servers := readServers(t, configPath)
	registered, ok := servers["companion"].(map[string]interface{})
	if !ok {
		t.Fatal("companion entry missing")
	}
	if registered["command"] != "/usr/bin/companion-mcp" {
		t.Errorf("command = %v, want /usr/bin/companion-mcp", registered["command"])
	}
}

func Test_writeConfig_PreservesExistingServers(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")
	existing := `{"mcpServers": {"other": {"command": "/bin/other"}}, "unrelated": true}`
	if err := os.WriteFile(configPath, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	if err := writeConfig(configPath, "companion", serverEntry{Command: "/bin/companion-mcp"}); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}

	servers := readServers(t, configPath)
	if _, ok := servers["other"]; !ok {
		t.Error("existing server entry was dropped")
	}
	if _, ok := servers["companion"]; !ok {
		t.Error("new server entry missing")
	}
}

func Test_writeConfig_RejectsMalformedServers(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")
	if err := os.WriteFile(configPath, []byte(`{"mcpServers": "oops"}`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := writeConfig(configPath, "companion", serverEntry{Command: "/bin/x"}); err == nil {
		t.Fatal("expected error for non-object mcpServers")
	}
}

func Test_Run_RejectsUnknownScope(t *testing.T) {
	if err := Run("companion", []string{"global"}); err == nil {
		t.Fatal("expected usage error for unknown scope")
	}
	if err := Run("companion", nil); err == nil {
		t.Fatal("expected usage error for missing scope")
	}
}
