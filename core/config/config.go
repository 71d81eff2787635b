package config

import (
	"fmt"
	"strings"
	"sync"

	"smart-schedule/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	GoogleAPI GoogleAPIConfig
	CalDAV    CalDAVConfig
	Storage   StorageConfig
	Booking   BookingConfig
}

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
	Env     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type CalDAVConfig struct {
	UserAgent string
}

// StorageConfig points at an S3 compatible bucket. An empty Bucket disables archiving.
type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type BookingConfig struct {
	CandidateStepMinutes int
	HorizonDays          int
	RateLimit            int
	RateWindowSeconds    int
}

var (
	instance *Config
	mu       sync.RWMutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("SERVER_BASE_URL", "http://localhost:7070")
	v.SetDefault("ENV", "development")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "smart_schedule")
	v.SetDefault("DB_SSLMODE", constants.DatabaseSSLMode)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "smart-schedule")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URI", "")

	v.SetDefault("CALDAV_USER_AGENT", "smart-schedule/1.0")

	v.SetDefault("STORAGE_BUCKET", "")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_ACCESS_KEY_ID", "")
	v.SetDefault("STORAGE_SECRET_ACCESS_KEY", "")

	v.SetDefault("BOOKING_CANDIDATE_STEP_MINUTES", constants.DefaultCandidateStepMinutes)
	v.SetDefault("BOOKING_HORIZON_DAYS", constants.DefaultBookingHorizonDays)
	v.SetDefault("BOOKING_RATE_LIMIT", constants.DefaultBookingRateLimit)
	v.SetDefault("BOOKING_RATE_WINDOW_SECONDS", int(constants.DefaultBookingRateWindow.Seconds()))
}

// Load reads the optional .env file and the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:    v.GetString("SERVER_HOST"),
			Port:    v.GetInt("SERVER_PORT"),
			BaseURL: strings.TrimRight(v.GetString("SERVER_BASE_URL"), "/"),
			Env:     v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Issuer: v.GetString("JWT_ISSUER"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  v.GetString("GOOGLE_REDIRECT_URI"),
		},
		CalDAV: CalDAVConfig{
			UserAgent: v.GetString("CALDAV_USER_AGENT"),
		},
		Storage: StorageConfig{
			Bucket:          v.GetString("STORAGE_BUCKET"),
			Region:          v.GetString("STORAGE_REGION"),
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
		},
		Booking: BookingConfig{
			CandidateStepMinutes: v.GetInt("BOOKING_CANDIDATE_STEP_MINUTES"),
			HorizonDays:          v.GetInt("BOOKING_HORIZON_DAYS"),
			RateLimit:            v.GetInt("BOOKING_RATE_LIMIT"),
			RateWindowSeconds:    v.GetInt("BOOKING_RATE_WINDOW_SECONDS"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	Set(cfg)
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Database.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Booking.CandidateStepMinutes <= 0 || c.Booking.CandidateStepMinutes > 60 {
		return fmt.Errorf("BOOKING_CANDIDATE_STEP_MINUTES must be in 1..60, got %d", c.Booking.CandidateStepMinutes)
	}
	if c.Booking.HorizonDays <= 0 {
		return fmt.Errorf("BOOKING_HORIZON_DAYS must be positive, got %d", c.Booking.HorizonDays)
	}
	return nil
}

// Set replaces the process configuration. Tests use it to install fixtures.
func Set(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}

// Get returns the loaded configuration and panics when Load was never called.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: not initialized")
	}
	return cfg
}

func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
