package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alert-override/internal/device/tone"
	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
)

// Config holds parameters shared by the engine and the report client.
type Config struct {
	// ServerAddress is the gRPC address the engine listens on and clients dial.
	ServerAddress string `yaml:"server_addr"`
	// MetricsAddress serves /metrics and /healthz; empty disables the listener.
	MetricsAddress string `yaml:"metrics_addr"`
	// Timezone is the IANA zone quiet hours are evaluated in; empty means local time.
	Timezone string `yaml:"timezone"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Timeout bounds client RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// ShutdownGrace is how long pending restore steps may still run on shutdown.
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
	// Storage locates contacts, schedules and settings.
	Storage Storage `yaml:"storage"`
	// Audio describes the simulated audio device.
	Audio Audio `yaml:"audio"`
	// Notify selects where notifications go.
	Notify Notify `yaml:"notify"`
}

// Storage locates the persisted engine data.
type Storage struct {
	// Driver is "file" for JSON lists or "sqlite" for a database.
	Driver string `yaml:"driver"`
	// ContactsFile is the JSON contact list used by the file driver.
	ContactsFile string `yaml:"contacts_file"`
	// SchedulesFile is the JSON schedule list used by the file driver.
	SchedulesFile string `yaml:"schedules_file"`
	// SQLitePath is the database used by the sqlite driver.
	SQLitePath string `yaml:"sqlite_path"`
	// SettingsFile is the YAML file with user settings, re-read on every event.
	SettingsFile string `yaml:"settings_file"`
}

// Audio is the initial state of the simulated device and its tone output.
type Audio struct {
	// ToneMode is "command", "bell" or "none"; stored lowercase after validation.
	ToneMode string `yaml:"tone_mode"`
	// MaxVolume is the stream maximum.
	MaxVolume int `yaml:"max_volume"`
	// RingerMode is "silent", "vibrate" or "normal".
	RingerMode string `yaml:"ringer_mode"`
	// NotificationVolume and MediaVolume are the starting stream levels.
	NotificationVolume int `yaml:"notification_volume"`
	MediaVolume        int `yaml:"media_volume"`
}

// Notify selects the notification sinks. The log sink is always on.
type Notify struct {
	// RedisAddress enables the Redis stream sink when set.
	RedisAddress string `yaml:"redis_addr"`
	// RedisStream is the stream notifications are appended to.
	RedisStream string `yaml:"redis_stream"`
}

const (
	// DefaultConfigFilename is the default filename for engine settings.
	DefaultConfigFilename = "alert-override.yaml"
	// DefaultServerAddress is the gRPC address used when none is configured.
	DefaultServerAddress = "127.0.0.1:50061"
	// DefaultContactsFilename is the default JSON contact list.
	DefaultContactsFilename = "important-contacts.json"
	// DefaultSchedulesFilename is the default JSON schedule list.
	DefaultSchedulesFilename = "quiet-hours.json"
	// DefaultSQLiteFilename is the default database.
	DefaultSQLiteFilename = "alert-override.db"
	// DefaultSettingsFilename is the default user settings file.
	DefaultSettingsFilename = "alert-settings.yaml"
	// DefaultRedisStream is the default notification stream.
	DefaultRedisStream = "alert-override:notifications"
	// DefaultTimeout is the default duration for client RPC calls.
	DefaultTimeout = 5 * time.Second
	// DefaultShutdownGrace is the default drain timeout of the scheduler.
	DefaultShutdownGrace = 15 * time.Second
	// DefaultMaxVolume is the default stream maximum.
	DefaultMaxVolume = 15
	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// DriverFile keeps contacts and schedules in JSON files.
	DriverFile = "file"
	// DriverSQLite keeps contacts and schedules in SQLite.
	DriverSQLite = "sqlite"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Default returns a validated configuration with every default filled in.
func Default() *Config {
	cfg := new(Config)

	//nolint:errcheck // The zero config always validates.
	Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks formats and fills defaults in place.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ServerAddress == "" {
		cfg.ServerAddress = DefaultServerAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ServerAddress); err != nil {
		return fmt.Errorf("%w: server address: %w", ErrInvalidConfig, err)
	}

	if cfg.MetricsAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", cfg.MetricsAddress); err != nil {
			return fmt.Errorf("%w: metrics address: %w", ErrInvalidConfig, err)
		}
	}

	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("%w: timezone: %w", ErrInvalidConfig, err)
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, cfg.LogLevel)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = DefaultShutdownGrace
	}

	if err := validateStorage(&cfg.Storage); err != nil {
		return err
	}

	if err := validateAudio(&cfg.Audio); err != nil {
		return err
	}

	if cfg.Notify.RedisAddress != "" && cfg.Notify.RedisStream == "" {
		cfg.Notify.RedisStream = DefaultRedisStream
	}

	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}

	return time.LoadLocation(c.Timezone)
}

func validateStorage(s *Storage) error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))

	switch s.Driver {
	case "":
		s.Driver = DriverFile
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, s.Driver)
	}

	if s.ContactsFile == "" {
		s.ContactsFile = DefaultContactsFilename
	}

	if s.SchedulesFile == "" {
		s.SchedulesFile = DefaultSchedulesFilename
	}

	if s.SQLitePath == "" {
		s.SQLitePath = DefaultSQLiteFilename
	}

	if s.SettingsFile == "" {
		s.SettingsFile = DefaultSettingsFilename
	}

	return nil
}

func validateAudio(a *Audio) error {
	mode, err := tone.ParseMode(a.ToneMode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	a.ToneMode = string(mode)

	if a.RingerMode == "" {
		a.RingerMode = alert.RingerSilent.String()
	}

	if _, err = alert.ParseRingerMode(a.RingerMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if a.MaxVolume <= 0 {
		a.MaxVolume = DefaultMaxVolume
	}

	if a.NotificationVolume < 0 || a.NotificationVolume > a.MaxVolume ||
		a.MediaVolume < 0 || a.MediaVolume > a.MaxVolume {
		return fmt.Errorf("%w: volumes must be within 0..%d", ErrInvalidConfig, a.MaxVolume)
	}

	return nil
}
