package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-terminal/internal/config"
	"portfolio-terminal/internal/theme"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestContentValidateDefault(t *testing.T) {
	out, err := run(t, "content", "validate")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ok: Alex Rivera, "), out)
}

func TestContentValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("personal: [unclosed"), 0o600))

	_, err := run(t, "content", "validate", path)
	assert.Error(t, err)
}

func TestContentCommandsListsTable(t *testing.T) {
	out, err := run(t, "content", "commands")
	require.NoError(t, err)
	names := strings.Fields(out)
	assert.Contains(t, names, "help")
	assert.Contains(t, names, "whoami")
	assert.Contains(t, names, "date")
}

func TestContentDumpIsJSON(t *testing.T) {
	out, err := run(t, "content", "dump")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Alex Rivera"`)
}

func TestLoadEnvFile(t *testing.T) {
	assert.NoError(t, loadEnvFile(""))
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORTFOLIO_CLI_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("PORTFOLIO_CLI_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("PORTFOLIO_CLI_TEST_VALUE"))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("PORTFOLIO_CLI_TEST_VALUE"))
}

func TestLoadEnvFileKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORTFOLIO_CLI_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("PORTFOLIO_CLI_TEST_VALUE", "from-env")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-env", os.Getenv("PORTFOLIO_CLI_TEST_VALUE"))
}

func TestThemeOptions(t *testing.T) {
	opts, err := themeOptions(config.Config{ThemeVariant: "midnight", ThemeForceMono: true})
	require.NoError(t, err)
	assert.Equal(t, theme.Variant("midnight"), opts.Variant)
	assert.True(t, opts.ForceMono)

	_, err = themeOptions(config.Config{ThemeVariant: "neon"})
	assert.ErrorIs(t, err, theme.ErrUnknownVariant)
}

func TestContactServiceStores(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{"none", "file", "sqlite"} {
		t.Run(kind, func(t *testing.T) {
			cfg := config.Config{
				ContactStore:         kind,
				ContactStorePath:     filepath.Join(dir, kind+".store"),
				ContactRelayTimeout:  time.Second,
				ContactRetention:     time.Hour,
				ContactPruneSchedule: "@hourly",
			}
			svc, cleanup, err := contactService(cfg)
			require.NoError(t, err)
			require.NotNil(t, svc)
			cleanup()
		})
	}
}

func TestContactServiceBadSchedule(t *testing.T) {
	cfg := config.Config{
		ContactStore:         "file",
		ContactStorePath:     filepath.Join(t.TempDir(), "c.json"),
		ContactRelayTimeout:  time.Second,
		ContactRetention:     time.Hour,
		ContactPruneSchedule: "every so often",
	}
	_, _, err := contactService(cfg)
	assert.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PORTFOLIO_SSH_HOST", "127.0.0.1")
	t.Setenv("PORTFOLIO_SSH_PORT", "1")
	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	cfg.Port = 0
	cfg.HostKeyPath = filepath.Join(dir, "host_ed25519")
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.ContactStore = "file"
	cfg.ContactStorePath = filepath.Join(dir, "contact.json")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}
