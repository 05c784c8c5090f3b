package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Booking   BookingConfig   `mapstructure:"booking"`
	Admin     AdminConfig     `mapstructure:"admin"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// ScheduleConfig is the daily bookable window.
type ScheduleConfig struct {
	Start       string `mapstructure:"start"`
	End         string `mapstructure:"end"`
	StepMinutes int    `mapstructure:"step_minutes"`
}

// BookingConfig holds UI-facing booking parameters. MaxSuggestions caps the
// free-slot listing; it is presentation tuning, not a business rule.
type BookingConfig struct {
	MaxSuggestions      int `mapstructure:"max_suggestions"`
	MyAppointmentsLimit int `mapstructure:"my_appointments_limit"`
}

// AdminConfig is the bootstrap administrator account. The email is reserved
// and cannot be registered by patients.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("schedule.start", "09:00")
	viper.SetDefault("schedule.end", "17:00")
	viper.SetDefault("schedule.step_minutes", 30)
	viper.SetDefault("booking.max_suggestions", 12)
	viper.SetDefault("booking.my_appointments_limit", 30)
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 50)
	viper.SetDefault("rate_limit.burst", 100)
}
