package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	URL      string `yaml:"url" validate:"required"`
	MaxConns int32  `yaml:"maxConns,omitempty" validate:"omitempty,min=1"`
	MinConns int32  `yaml:"minConns,omitempty" validate:"omitempty,min=0"`
	// ConnectRetry bounds how long startup waits for the database, e.g. "30s"
	ConnectRetry time.Duration `yaml:"connectRetry,omitempty" validate:"omitempty,min=0"`
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	ListenAddr       string `yaml:"listenAddr" validate:"required"`
	AdminAPIToken    string `yaml:"adminAPIToken,omitempty"`
	CORSAllowOrigins string `yaml:"corsAllowOrigins,omitempty"`
	BodyLimitBytes   int    `yaml:"bodyLimitBytes,omitempty" validate:"omitempty,min=1024"`
}

// ReviewsConfig holds the moderation queue paging limits
type ReviewsConfig struct {
	DefaultPageSize int `yaml:"defaultPageSize" validate:"min=1"`
	MaxPageSize     int `yaml:"maxPageSize" validate:"min=1,gtefield=DefaultPageSize"`
}

// RecommendationWeights are the points awarded per match by each criterion.
// Omitted weights keep their default.
type RecommendationWeights struct {
	Location *int `yaml:"location,omitempty" validate:"omitempty,min=0"`
	Skill    *int `yaml:"skill,omitempty" validate:"omitempty,min=0"`
	Interest *int `yaml:"interest,omitempty" validate:"omitempty,min=0"`
	Urgency  *int `yaml:"urgency,omitempty" validate:"omitempty,min=0"`
}

// RecommendationsConfig holds the recommendation engine settings
type RecommendationsConfig struct {
	DefaultLimit     int                    `yaml:"defaultLimit" validate:"min=1"`
	MaxLimit         int                    `yaml:"maxLimit" validate:"min=1,gtefield=DefaultLimit"`
	Weights          *RecommendationWeights `yaml:"weights,omitempty"`
	UrgencyThreshold *int                   `yaml:"urgencyThreshold,omitempty" validate:"omitempty,min=0"`
}

// KafkaConfig holds the event bus settings. Leaving brokers empty disables publishing.
type KafkaConfig struct {
	Brokers  []string `yaml:"brokers,omitempty" validate:"dive,hostname_port"`
	Topic    string   `yaml:"topic,omitempty" validate:"required_with=Brokers"`
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	TLS      bool     `yaml:"tls,omitempty"`
}

// DigestConfig schedules the pending-review digest sent to platform admins
type DigestConfig struct {
	RRule        string   `yaml:"rrule,omitempty"`
	AdminUserIDs []string `yaml:"adminUserIDs,omitempty" validate:"required_with=RRule,dive,required"`
}

// Config represents the application configuration
type Config struct {
	Database        DatabaseConfig        `yaml:"database"`
	Server          ServerConfig          `yaml:"server"`
	Reviews         ReviewsConfig         `yaml:"reviews"`
	Recommendations RecommendationsConfig `yaml:"recommendations"`
	Kafka           KafkaConfig           `yaml:"kafka,omitempty"`
	Digest          DigestConfig          `yaml:"digest,omitempty"`
}

// Environment variables overlaid on the file configuration
const (
	EnvDatabaseURL   = "DATABASE_URL"
	EnvAdminAPIToken = "ADMIN_API_TOKEN"
	EnvKafkaUsername = "KAFKA_USERNAME"
	EnvKafkaPassword = "KAFKA_PASSWORD"
)

const (
	defaultListenAddr       = ":8080"
	defaultPageSize         = 10
	defaultMaxPageSize      = 100
	defaultRecommendLimit   = 10
	defaultMaxRecommend     = 50
	defaultUrgencyThreshold = 5
)

const (
	defaultLocationWeight = 10
	defaultSkillWeight    = 20
	defaultInterestWeight = 15
	defaultUrgencyWeight  = 5
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from volunteer_config.yaml
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads .env (outside prod), then loads and validates the configuration
// for an environment. It looks for volunteer_config.<env>.yaml, falling back to
// volunteer_config.yaml, in the current directory first, then in the user's home directory.
func LoadWithEnv(env string) (*Config, error) {
	if env != "prod" {
		if err := godotenv.Overload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Secrets set in the environment override the file values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv overlays secrets from the environment
func applyEnv(cfg *Config) {
	overlay := map[string]*string{
		EnvDatabaseURL:   &cfg.Database.URL,
		EnvAdminAPIToken: &cfg.Server.AdminAPIToken,
		EnvKafkaUsername: &cfg.Kafka.Username,
		EnvKafkaPassword: &cfg.Kafka.Password,
	}
	for key, field := range overlay {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			*field = value
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = defaultListenAddr
	}
	if cfg.Reviews.DefaultPageSize == 0 {
		cfg.Reviews.DefaultPageSize = defaultPageSize
	}
	if cfg.Reviews.MaxPageSize == 0 {
		cfg.Reviews.MaxPageSize = defaultMaxPageSize
	}
	if cfg.Recommendations.DefaultLimit == 0 {
		cfg.Recommendations.DefaultLimit = defaultRecommendLimit
	}
	if cfg.Recommendations.MaxLimit == 0 {
		cfg.Recommendations.MaxLimit = defaultMaxRecommend
	}
	if cfg.Recommendations.Weights == nil {
		cfg.Recommendations.Weights = &RecommendationWeights{}
	}
	weights := cfg.Recommendations.Weights
	weights.Location = orDefault(weights.Location, defaultLocationWeight)
	weights.Skill = orDefault(weights.Skill, defaultSkillWeight)
	weights.Interest = orDefault(weights.Interest, defaultInterestWeight)
	weights.Urgency = orDefault(weights.Urgency, defaultUrgencyWeight)
	if cfg.Recommendations.UrgencyThreshold == nil {
		threshold := defaultUrgencyThreshold
		cfg.Recommendations.UrgencyThreshold = &threshold
	}
}

func orDefault(v *int, def int) *int {
	if v != nil {
		return v
	}
	return &def
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Digest.RRule != "" {
		if _, err := rrule.StrToRRule(cfg.Digest.RRule); err != nil {
			return fmt.Errorf("invalid rrule in digest: %w", err)
		}
	}

	return nil
}

// findConfigFile searches for the environment's config file in the current
// directory and the home directory
func findConfigFile(env string) (string, error) {
	candidates := []string{}
	if env != "" {
		candidates = append(candidates, fmt.Sprintf("volunteer_config.%s.yaml", env))
	}
	candidates = append(candidates, "volunteer_config.yaml")

	homeDir, homeErr := os.UserHomeDir()

	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
		if homeErr != nil {
			continue
		}
		homeConfigPath := filepath.Join(homeDir, name)
		if _, err := os.Stat(homeConfigPath); err == nil {
			return homeConfigPath, nil
		}
	}

	if homeErr != nil {
		return "", fmt.Errorf("config file not found in current directory and failed to get home directory: %w", homeErr)
	}
	return "", fmt.Errorf("config file not found in current directory or home directory")
}
