package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetNoColor())
	assert.Equal(t, "jq", cfg.Engine)

	timeout, err := cfg.GetTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestGetTimeout(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
		wantErr  bool
	}{
		{value: "", expected: 0},
		{value: "0", expected: 0},
		{value: "1m", expected: time.Minute},
		{value: "500ms", expected: 500 * time.Millisecond},
		{value: "soon", wantErr: true},
		{value: "-1s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			d, err := (&Config{Timeout: tt.value}).GetTimeout()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `timeout: 5s
validateSSL: false
engine: jmespath
headers:
  Accept: application/json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "5s", cfg.Timeout)
	assert.False(t, cfg.GetValidateSSL())
	assert.True(t, cfg.GetFollowRedirects(), "unset values keep defaults")
	assert.Equal(t, "jmespath", cfg.Engine)
	assert.Equal(t, "monokai", cfg.Style)
	assert.Equal(t, map[string]string{"Accept": "application/json"}, cfg.Headers)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"followRedirects": false, "attachmentDir": "/tmp/out"}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.GetFollowRedirects())
	assert.Equal(t, "/tmp/out", cfg.AttachmentDir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("defaults when absent", func(t *testing.T) {
		cfg, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("finds dotfile", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".barbouse.yml"), []byte("style: dracula\n"), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "dracula", cfg.Style)
		assert.Equal(t, filepath.Join(dir, ".barbouse.yml"), cfg.Path)
	})
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"Accept": "*/*", "X-Base": "1"}

	merged := base.Merge(&Config{
		Timeout:     "0",
		ValidateSSL: BoolPtr(false),
		Headers:     map[string]string{"Accept": "application/json"},
		Proxy:       "http://proxy:3128",
	})

	assert.Equal(t, "0", merged.Timeout)
	assert.False(t, merged.GetValidateSSL())
	assert.True(t, merged.GetFollowRedirects())
	assert.Equal(t, "http://proxy:3128", merged.Proxy)
	assert.Equal(t, map[string]string{"Accept": "application/json", "X-Base": "1"}, merged.Headers)
	assert.Equal(t, "*/*", base.Headers["Accept"], "merge does not modify the receiver")

	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Proxy = "http://p"

	for _, name := range []string{"out.yaml", "out.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.SaveConfig(path))

		loaded, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "http://p", loaded.Proxy, name)
	}
}
