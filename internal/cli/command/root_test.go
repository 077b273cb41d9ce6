package command

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/dms-portal/internal/infra/buildinfo"
)

const testSecret = "0123456789abcdef-test-secret"

// runApp runs the CLI with args and returns what it wrote.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := App()
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(append([]string{"dms-portal"}, args...))
	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portal.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "dms-portal" {
		t.Errorf("Name = %q, want dms-portal", app.Name)
	}

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"serve", "version", "config"} {
		if !names[want] {
			t.Errorf("missing command %q", want)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	names := make(map[string]bool)
	for _, f := range globalFlags() {
		names[f.Names()[0]] = true
	}
	for _, want := range []string{"config", "env-file", "output", "addr", "backend-url", "log-level"} {
		if !names[want] {
			t.Errorf("missing flag %q", want)
		}
	}
}

func TestParseGlobalFlags(t *testing.T) {
	var got *GlobalFlags
	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			got = ParseGlobalFlags(c)
			return nil
		},
	}

	err := app.Run([]string{"test",
		"--config", "/etc/dms/portal.yaml",
		"--env-file", "/etc/dms/portal.env",
		"-o", "json",
		"--addr", "0.0.0.0:9000",
		"--backend-url", "http://api:5000",
		"--log-level", "debug",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got.ConfigFile != "/etc/dms/portal.yaml" || got.EnvFile != "/etc/dms/portal.env" || got.Output != "json" {
		t.Errorf("flags = %+v", got)
	}

	ov := got.overrides()
	want := map[string]any{
		"server.http.addr": "0.0.0.0:9000",
		"backend.base_url": "http://api:5000",
		"log.level":        "debug",
	}
	for k, v := range want {
		if ov[k] != v {
			t.Errorf("overrides[%q] = %v, want %v", k, ov[k], v)
		}
	}
}

func TestOverrides_Empty(t *testing.T) {
	if ov := (&GlobalFlags{}).overrides(); len(ov) != 0 {
		t.Errorf("overrides() = %v, want empty", ov)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    addr: "127.0.0.1:7000"
backend:
  base_url: "http://file-backend:5000"
`)
	t.Setenv("DMS_BACKEND__BASE_URL", "http://env-backend:5000")

	cfg, err := loadConfig(&GlobalFlags{ConfigFile: path, Addr: "127.0.0.1:7001"})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Server.HTTP.Addr != "127.0.0.1:7001" {
		t.Errorf("addr = %q, want flag override", cfg.Server.HTTP.Addr)
	}
	if cfg.Backend.BaseURL != "http://env-backend:5000" {
		t.Errorf("base_url = %q, want env over file", cfg.Backend.BaseURL)
	}
	if cfg.Session.CookieName != "dms_tab" {
		t.Errorf("cookie_name = %q, want default", cfg.Session.CookieName)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "-o", "json", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}

	var info buildinfo.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version output is not JSON: %v\n%s", err, out)
	}
	if info.Version != buildinfo.Version {
		t.Errorf("version = %q, want %q", info.Version, buildinfo.Version)
	}
}

func TestVersionCommand_Table(t *testing.T) {
	out, err := runApp(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "go_version") {
		t.Errorf("table output missing go_version:\n%s", out)
	}
}

func TestBadOutputFormat(t *testing.T) {
	if _, err := runApp(t, "-o", "xml", "version"); err == nil {
		t.Error("unknown output format should fail")
	}
}
