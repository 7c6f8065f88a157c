package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	DefaultFilePrefix = "ytdl"
	envFileName       = ".env"
)

type ExtractorConfig struct {
	Binary        string        `yaml:"binary" env:"EXTRACTOR_BINARY" env-default:"yt-dlp"`
	Interpreter   string        `yaml:"interpreter" env:"EXTRACTOR_INTERPRETER" env-default:"python"`
	Module        string        `yaml:"module" env:"EXTRACTOR_MODULE" env-default:"yt_dlp"`
	PluginDir     string        `yaml:"plugin_dir" env:"EXTRACTOR_PLUGIN_DIR" env-default:"yt_dlp_plugins"`
	FFmpegPath    string        `yaml:"ffmpeg_path" env:"FFMPEG_PATH"`
	Timeout       time.Duration `yaml:"timeout" env:"EXTRACTOR_TIMEOUT" env-default:"10m"`
	MaxConcurrent int           `yaml:"max_concurrent" env:"EXTRACTOR_MAX_CONCURRENT" env-default:"4"`
}

type StorageConfig struct {
	TempDir       string        `yaml:"temp_dir" env:"TEMP_DIR"`
	FilePrefix    string        `yaml:"file_prefix" env:"FILE_PREFIX" env-default:"ytdl"`
	MaxAge        time.Duration `yaml:"max_age" env:"SWEEP_MAX_AGE" env-default:"1h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SWEEP_INTERVAL" env-default:"15m"`
	SweepWorkers  int           `yaml:"sweep_workers" env:"SWEEP_WORKERS" env-default:"2"`
	DumpFileName  string        `yaml:"dump_filename" env:"DUMP_FILENAME" env-default:"stats.yml"`
}

type RedisConfig struct {
	URL      string        `yaml:"url" env:"REDIS_URL"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"REDIS_CACHE_TTL" env-default:"10m"`
}

type LimitsConfig struct {
	RPS   float64 `yaml:"rps" env:"LIMIT_RPS" env-default:"5"`
	Burst int     `yaml:"burst" env:"LIMIT_BURST" env-default:"10"`
}

type UIConfig struct {
	NoticeFile string `yaml:"notice_file" env:"UI_NOTICE_FILE"`
}

type Config struct {
	Listen          string          `yaml:"listen" env:"LISTEN" env-default:":3000"`
	LogLevel        string          `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	Redis           RedisConfig     `yaml:"redis"`
	Extractor       ExtractorConfig `yaml:"extractor"`
	Storage         StorageConfig   `yaml:"storage"`
	Limits          LimitsConfig    `yaml:"limits"`
	UI              UIConfig        `yaml:"ui"`
}

// SetDefaults fills the config the same way an empty config file would.
func (c *Config) SetDefaults() {
	if err := cleanenv.ReadEnv(c); err != nil {
		panic(err)
	}
}

// Load reads .env (if any) next to the config file, then the config file
// itself. Environment variables override file values. A missing config file
// is not an error.
func Load(path string) (*Config, error) {
	envFile := filepath.Join(filepath.Dir(path), envFileName)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load %s: %w", envFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot stat config file: %w", err)
		}

		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}

	if c.Extractor.MaxConcurrent < 1 {
		return fmt.Errorf("extractor.max_concurrent must be positive")
	}

	if c.Storage.FilePrefix == "" {
		c.Storage.FilePrefix = DefaultFilePrefix
	}

	if c.Storage.SweepWorkers < 1 {
		c.Storage.SweepWorkers = 1
	}

	return nil
}

// TempDir returns the directory the extractor writes run files to.
func (c *Config) TempDir() string {
	if c.Storage.TempDir != "" {
		return c.Storage.TempDir
	}

	return os.TempDir()
}

// PluginDir resolves the plugin directory against the working directory.
func (c *Config) PluginDir() string {
	if c.Extractor.PluginDir == "" || filepath.IsAbs(c.Extractor.PluginDir) {
		return c.Extractor.PluginDir
	}

	wd, err := os.Getwd()
	if err != nil {
		return c.Extractor.PluginDir
	}

	return filepath.Join(wd, c.Extractor.PluginDir)
}
