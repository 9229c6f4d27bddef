package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config holds every setting the server reads at startup
type Config struct {
	Port         string   `yaml:"port"`
	Environment  string   `yaml:"environment"`
	StoreBackend string   `yaml:"store_backend"`
	SeedData     bool     `yaml:"seed_data"`
	CORSOrigins  []string `yaml:"cors_origins"`

	MongoURI      string `yaml:"mongodb_uri"`
	MongoDatabase string `yaml:"mongodb_database"`

	RedisAddress     string `yaml:"redis_address"`
	RedisPassword    string `yaml:"redis_password"`
	IssueLimitPrefix string `yaml:"issue_limit_prefix"`
	IssueDailyLimit  int    `yaml:"issue_daily_limit"`

	JWTSecret     string `yaml:"jwt_secret"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:             "8080",
		Environment:      "development",
		StoreBackend:     BackendMemory,
		SeedData:         true,
		CORSOrigins:      []string{"http://localhost:5173"},
		MongoDatabase:    "setshaba",
		IssueLimitPrefix: "issue_limit",
		IssueDailyLimit:  10,
		AdminEmail:       "admin@setshaba.gov.za",
	}
}

// IsProduction reports whether GO_ENV is production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks the settings that would otherwise fail at first use.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("please define the MONGODB_URI environment variable")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("please define the JWT_SECRET environment variable")
	}
	if c.IssueDailyLimit < 1 {
		return fmt.Errorf("issue daily limit must be positive, got %d", c.IssueDailyLimit)
	}
	return nil
}

// Load reads .env if present, then the YAML file named by CONFIG_FILE, then
// environment variables, each layer overriding the previous.
func Load() (Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PORT":                        &cfg.Port,
		"GO_ENV":                      &cfg.Environment,
		"STORE_BACKEND":               &cfg.StoreBackend,
		"MONGODB_URI":                 &cfg.MongoURI,
		"MONGODB_DATABASE":            &cfg.MongoDatabase,
		"REDIS_ADDRESS":               &cfg.RedisAddress,
		"REDIS_PASSWORD":              &cfg.RedisPassword,
		"REDIS_QUEUE_FOR_ISSUE_LIMIT": &cfg.IssueLimitPrefix,
		"JWT_SECRET":                  &cfg.JWTSecret,
		"ADMIN_EMAIL":                 &cfg.AdminEmail,
		"ADMIN_PASSWORD":              &cfg.AdminPassword,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("ISSUE_DAILY_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ISSUE_DAILY_LIMIT: %w", err)
		}
		cfg.IssueDailyLimit = n
	}
	if v, ok := lookup("SEED_DATA"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED_DATA: %w", err)
		}
		cfg.SeedData = b
	}
	if v, ok := lookup("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	return nil
}
