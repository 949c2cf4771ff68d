package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Constants for default paths
const (
	defaultConfigPath = "./config/config.yaml"
	defaultEnvFile    = ".env"
	envPrefix         = "NALBOM"
)

// Drive link templates accepted by drive_template
const (
	DriveTemplateUC          = "uc"
	DriveTemplateUserContent = "usercontent"
)

// Config represents the application configuration
type Config struct {
	Port              int     `mapstructure:"port" json:"port"`
	APIBaseURL        string  `mapstructure:"api_base_url" json:"api_base_url"`            // Remote REST API root
	APITimeout        int     `mapstructure:"api_timeout_sec" json:"api_timeout_sec"`      // 0 keeps the transport default
	AdminID           string  `mapstructure:"admin_id" json:"admin_id"`                    // Shared operator id
	AdminPassword     string  `mapstructure:"admin_password" json:"-"`                     // Legacy plaintext, hashed at startup
	AdminPasswordHash string  `mapstructure:"admin_password_hash" json:"-"`                // bcrypt hash
	SessionWindow     int     `mapstructure:"session_window_sec" json:"session_window_sec"` // Idle-logout window
	SQLitePath        string  `mapstructure:"sqlite_path" json:"sqlite_path"`
	SweepInterval     int     `mapstructure:"sweep_interval_min" json:"sweep_interval_min"` // How often expired sessions are purged
	SweeperEnabled    bool    `mapstructure:"sweeper_enabled" json:"sweeper_enabled"`
	DriveTemplate     string  `mapstructure:"drive_template" json:"drive_template"`
	MaxImageSize      float64 `mapstructure:"max_image_size_mib" json:"max_image_size_mib"`
	SecureCookies     bool    `mapstructure:"secure_cookies" json:"secure_cookies"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("api_base_url", "http://localhost:2401/")
	v.SetDefault("api_timeout_sec", 0)
	v.SetDefault("admin_id", "")
	v.SetDefault("admin_password", "")
	v.SetDefault("admin_password_hash", "")
	v.SetDefault("session_window_sec", 600)
	v.SetDefault("sqlite_path", "/data/nalbom.db")
	v.SetDefault("sweep_interval_min", 10)
	v.SetDefault("sweeper_enabled", true)
	v.SetDefault("drive_template", DriveTemplateUC)
	v.SetDefault("max_image_size_mib", 10.0)
	v.SetDefault("secure_cookies", false)
}

// ConfigPath returns the config file location, honouring CONFIG_PATH
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}

// LoadConfig loads a configuration from a YAML file. Values from the
// environment (NALBOM_*) and from a .env file in the working directory
// take precedence over the file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", defaultEnvFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// The legacy console read these two from the build environment.
	_ = v.BindEnv("admin_id", "NALBOM_ADMIN_ID", "REACT_APP_ADMIN_ID")
	_ = v.BindEnv("admin_password", "NALBOM_ADMIN_PW", "REACT_APP_ADMIN_PW")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config file format: %w", err)
	}

	return &cfg, nil
}

// Validate reports the first configuration problem found
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url must be an absolute URL")
	}
	if c.APITimeout < 0 {
		return fmt.Errorf("api_timeout_sec must not be negative")
	}
	if c.AdminID == "" {
		return fmt.Errorf("admin_id is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return fmt.Errorf("admin_password or admin_password_hash is required")
	}
	if c.SessionWindow <= 0 {
		return fmt.Errorf("session_window_sec must be greater than 0")
	}
	if c.SweeperEnabled && c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval_min must be greater than 0")
	}
	if c.DriveTemplate != DriveTemplateUC && c.DriveTemplate != DriveTemplateUserContent {
		return fmt.Errorf("drive_template must be %q or %q", DriveTemplateUC, DriveTemplateUserContent)
	}
	if c.MaxImageSize <= 0 {
		return fmt.Errorf("max_image_size_mib must be greater than 0")
	}
	return nil
}

func (c *Config) SessionWindowDuration() time.Duration {
	return time.Duration(c.SessionWindow) * time.Second
}

func (c *Config) SweepIntervalDuration() time.Duration {
	return time.Duration(c.SweepInterval) * time.Minute
}

func (c *Config) APITimeoutDuration() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}

func (c *Config) MaxImageSizeToBytes() int64 {
	return int64(c.MaxImageSize * 1024 * 1024)
}
