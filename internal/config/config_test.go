package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		name        string
		config      string
		env         string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "Missing file uses defaults",
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, ":3000", cfg.Listen)
				require.Equal(t, LogLevelInfo, cfg.LogLevel)
				require.Equal(t, "yt-dlp", cfg.Extractor.Binary)
				require.Equal(t, 4, cfg.Extractor.MaxConcurrent)
				require.Equal(t, 10*time.Minute, cfg.Extractor.Timeout)
				require.Equal(t, DefaultFilePrefix, cfg.Storage.FilePrefix)
				require.Empty(t, cfg.Redis.URL)
			},
		},
		{
			name: "File values",
			config: `listen: ":8081"
log_level: debug
extractor:
  binary: /usr/bin/yt-dlp
  ffmpeg_path: /usr/bin/ffmpeg
  max_concurrent: 2
storage:
  temp_dir: /var/tmp/mediafetch
  max_age: 30m
redis:
  url: redis://localhost:6379/0
`,
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, ":8081", cfg.Listen)
				require.Equal(t, LogLevelDebug, cfg.LogLevel)
				require.Equal(t, "/usr/bin/yt-dlp", cfg.Extractor.Binary)
				require.Equal(t, "/usr/bin/ffmpeg", cfg.Extractor.FFmpegPath)
				require.Equal(t, 2, cfg.Extractor.MaxConcurrent)
				require.Equal(t, "/var/tmp/mediafetch", cfg.TempDir())
				require.Equal(t, 30*time.Minute, cfg.Storage.MaxAge)
				require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
			},
		},
		{
			name:   "Dotenv overrides file",
			config: "log_level: info\n",
			env:    "LOG_LEVEL=warn\nFFMPEG_PATH=/opt/ffmpeg\n",
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, LogLevelWarn, cfg.LogLevel)
				require.Equal(t, "/opt/ffmpeg", cfg.Extractor.FFmpegPath)
			},
		},
		{
			name:        "Unknown log level",
			config:      "log_level: loud\n",
			expectError: true,
		},
		{
			name:        "Negative concurrency",
			config:      "extractor:\n  max_concurrent: -1\n",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yml")

			if tc.config != "" {
				require.NoError(t, os.WriteFile(path, []byte(tc.config), 0644))
			}

			if tc.env != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(tc.env), 0644))
				t.Cleanup(func() {
					os.Unsetenv("LOG_LEVEL")
					os.Unsetenv("FFMPEG_PATH")
				})
			}

			cfg, err := Load(path)
			if tc.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestPluginDir(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(wd, "yt_dlp_plugins"), cfg.PluginDir())

	cfg.Extractor.PluginDir = "/opt/plugins"
	require.Equal(t, "/opt/plugins", cfg.PluginDir())
}
