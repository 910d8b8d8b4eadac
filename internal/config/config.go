// Package config loads the application configuration from YAML with
// environment variable overrides
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration tree.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Logging   LoggingConfig   `yaml:"logging"`
	Redis     RedisConfig     `yaml:"redis"`
	CheckIn   CheckInConfig   `yaml:"checkin"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Seed      SeedConfig      `yaml:"seed"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"readTimeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	// RateLimitPerMinute caps requests per client IP. Zero disables it.
	RateLimitPerMinute int `yaml:"rateLimitPerMinute" env:"SERVER_RATE_LIMIT_PER_MINUTE"`
}

// DatabaseConfig holds the PostgreSQL settings.
type DatabaseConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST"`
	Port            int           `yaml:"port" env:"DB_PORT"`
	User            string        `yaml:"user" env:"DB_USER"`
	Password        string        `yaml:"password" env:"DB_PASSWORD"`
	Name            string        `yaml:"name" env:"DB_NAME"`
	SSLMode         string        `yaml:"sslMode" env:"DB_SSLMODE"`
	MaxOpenConns    int           `yaml:"maxOpenConns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"maxIdleConns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime" env:"DB_CONN_MAX_LIFETIME"`
	MigrationsDir   string        `yaml:"migrationsDir" env:"DB_MIGRATIONS_DIR"`
	AutoMigrate     bool          `yaml:"autoMigrate" env:"DB_AUTO_MIGRATE"`
}

// JWTConfig holds the token signing settings.
type JWTConfig struct {
	Secret          string        `yaml:"secret" env:"JWT_SECRET"`
	AccessDuration  time.Duration `yaml:"accessDuration" env:"JWT_ACCESS_DURATION"`
	RefreshDuration time.Duration `yaml:"refreshDuration" env:"JWT_REFRESH_DURATION"`
}

// LoggingConfig holds the zerolog settings.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// RedisConfig holds the optional cache settings. An empty address
// disables the cache.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	TokenTTL time.Duration `yaml:"tokenTtl" env:"REDIS_TOKEN_TTL"`
}

// CheckInConfig tunes the QR attendance pipeline. Tolerances are plain
// coordinate deltas, the zone is the axis-aligned box around the school.
type CheckInConfig struct {
	LatitudeTolerance  float64 `yaml:"latitudeTolerance" env:"CHECKIN_LAT_TOLERANCE"`
	LongitudeTolerance float64 `yaml:"longitudeTolerance" env:"CHECKIN_LNG_TOLERANCE"`
	WindowStart        string  `yaml:"windowStart" env:"CHECKIN_WINDOW_START"`
	WindowEnd          string  `yaml:"windowEnd" env:"CHECKIN_WINDOW_END"`
	// RateLimitPerMinute caps check-in attempts per client IP, on top
	// of the server-wide limit. Zero disables it.
	RateLimitPerMinute int `yaml:"rateLimitPerMinute" env:"CHECKIN_RATE_LIMIT_PER_MINUTE"`
}

// DashboardConfig tunes the aggregation windows.
type DashboardConfig struct {
	AttendanceWindowDays int `yaml:"attendanceWindowDays" env:"DASHBOARD_ATTENDANCE_WINDOW_DAYS"`
	PredictionWindowDays int `yaml:"predictionWindowDays" env:"DASHBOARD_PREDICTION_WINDOW_DAYS"`
}

// SeedConfig controls the bootstrap admin account.
type SeedConfig struct {
	AdminUsername string `yaml:"adminUsername" env:"SEED_ADMIN_USERNAME"`
	AdminEmail    string `yaml:"adminEmail" env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `yaml:"adminPassword" env:"SEED_ADMIN_PASSWORD"`
}

// LoadConfig reads the YAML file, fills defaults and applies env
// overrides. A .env file next to the binary is loaded first when present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			RateLimitPerMinute: 120,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "classtrack",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			MigrationsDir:   "migrations",
			AutoMigrate:     true,
		},
		JWT: JWTConfig{
			AccessDuration:  time.Hour,
			RefreshDuration: 7 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Redis: RedisConfig{
			TokenTTL: 5 * time.Minute,
		},
		CheckIn: CheckInConfig{
			LatitudeTolerance:  0.001,
			LongitudeTolerance: 0.001,
			WindowStart:        "07:00",
			WindowEnd:          "08:30",
			RateLimitPerMinute: 10,
		},
		Dashboard: DashboardConfig{
			AttendanceWindowDays: 30,
			PredictionWindowDays: 365,
		},
		Seed: SeedConfig{
			AdminUsername: "admin",
			AdminEmail:    "admin@classtrack.local",
		},
	}
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret must be set (JWT_SECRET)")
	}
	if c.CheckIn.LatitudeTolerance < 0 || c.CheckIn.LongitudeTolerance < 0 {
		return fmt.Errorf("check-in tolerances must be non-negative")
	}
	return nil
}

// PostgresConnectionString builds the pgx connection string.
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.SSLMode)
}

// ServerAddress returns the host:port listen address.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
