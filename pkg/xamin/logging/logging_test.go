package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xamin-app/xamin/pkg/xamin/logging"
)

// TestInit tests the Init function with various configurations.
// Note: This test cannot run in parallel with other tests that use global state.
func TestInit(t *testing.T) {
	validDir := t.TempDir()
	componentsDir := t.TempDir()

	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr bool
	}{
		{
			name: "valid config with file output",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(validDir, "test.log"),
			},
			wantErr: false,
		},
		{
			name:    "valid config with stderr output",
			cfg:     logging.Config{Level: "debug"},
			wantErr: false,
		},
		{
			name: "valid config with component overrides",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(componentsDir, "components.log"),
				Components: map[string]string{
					"entry":   "debug",
					"project": "warn",
				},
			},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     logging.Config{Level: "loud"},
			wantErr: true,
		},
		{
			name: "invalid component level",
			cfg: logging.Config{
				Level:      "info",
				Components: map[string]string{"entry": "shout"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logging.Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if err := logging.Close(); err != nil {
					t.Errorf("Close() error = %v", err)
				}
			}
		})
	}
}

func TestGetBeforeInit(t *testing.T) {
	_ = logging.Close()

	logger := logging.Get("silent")
	if logger == nil {
		t.Fatal("Get() returned nil before Init")
	}
	// Must not panic or write anywhere.
	logger.Info("dropped message")
}

func TestLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	if err := logging.Init(logging.Config{Level: "info", Path: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("testcomp")
	logger.Info("hello from test", "key", "value")
	logger.Debug("below threshold")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "hello from test") {
		t.Errorf("log file missing info message:\n%s", content)
	}
	if strings.Contains(content, "below threshold") {
		t.Errorf("log file contains message below level:\n%s", content)
	}
	if !strings.Contains(content, "testcomp") {
		t.Errorf("log file missing component prefix:\n%s", content)
	}
}

func TestComponentLevelOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	cfg := logging.Config{
		Level: "error",
		Path:  path,
		Components: map[string]string{
			"chatty": "debug",
		},
	}
	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logging.Get("chatty").Debug("chatty debug line")
	logging.Get("normal").Info("normal info line")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)
	if !strings.Contains(content, "chatty debug line") {
		t.Errorf("component override not applied:\n%s", content)
	}
	if strings.Contains(content, "normal info line") {
		t.Errorf("default level not applied:\n%s", content)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"info", logging.LevelInfo, false},
		{"warn", logging.LevelWarn, false},
		{"warning", logging.LevelWarn, false},
		{"error", logging.LevelError, false},
		{"ERROR", logging.LevelError, false},
		{"nope", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
