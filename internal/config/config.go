package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIURL is the hosted quiz backend.
const DefaultAPIURL = "https://git-quiz-server.onrender.com/api"

// Config holds all client configuration.
type Config struct {
	// Env selects the logger flavour. Values: "local", "production".
	Env string `mapstructure:"env"`

	// DBPath overrides the local database location. Empty means the XDG default.
	DBPath string `mapstructure:"db"`

	API          APIConfig          `mapstructure:"api"`
	User         UserConfig         `mapstructure:"user"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Quiz         QuizConfig         `mapstructure:"quiz"`
	Payment      PaymentConfig      `mapstructure:"payment"`
	Log          LogConfig          `mapstructure:"log"`
	DevServer    DevServerConfig    `mapstructure:"devserver"`
}

// APIConfig configures the remote backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"` // Optional bearer token.
	Timeout time.Duration `mapstructure:"timeout"`
}

// UserConfig seeds the signed-in identity. Values stored with
// `quizly login` take precedence at runtime.
type UserConfig struct {
	ID         string `mapstructure:"id"`
	PlayerName string `mapstructure:"player_name"`
}

// SubscriptionConfig tunes the subscription state provider.
type SubscriptionConfig struct {
	RefreshDebounce time.Duration `mapstructure:"refresh_debounce"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	FollowUpDelay   time.Duration `mapstructure:"follow_up_delay"`
}

// QuizConfig tunes quiz taking.
type QuizConfig struct {
	QuestionTime time.Duration `mapstructure:"question_time"`
}

// PaymentConfig holds the UPI payee shown on the subscription screen.
type PaymentConfig struct {
	UPIID   string `mapstructure:"upi_id"`
	UPIName string `mapstructure:"upi_name"`
}

// LogConfig configures zap output.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // Used while the TUI owns the terminal.
}

// DevServerConfig configures the in-memory stub backend.
type DevServerConfig struct {
	Addr        string `mapstructure:"addr"`
	FreeQuota   int    `mapstructure:"free_quota"`
	ReleaseMode bool   `mapstructure:"release_mode"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Env: "local",
		API: APIConfig{
			BaseURL: DefaultAPIURL,
			Timeout: 60 * time.Second,
		},
		Subscription: SubscriptionConfig{
			RefreshDebounce: 2 * time.Second,
			SettleDelay:     300 * time.Millisecond,
			FollowUpDelay:   500 * time.Millisecond,
		},
		Quiz: QuizConfig{
			QuestionTime: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		DevServer: DevServerConfig{
			Addr:      "127.0.0.1:8787",
			FreeQuota: 10,
		},
	}
}

// Load builds a Config from, in increasing priority: defaults, an optional
// .env file, an optional YAML config file, and QUIZLY_* environment
// variables. An empty path searches $XDG_CONFIG_HOME/quizly/config.yaml.
func Load(path string) (Config, error) {
	// Missing .env is normal.
	_ = godotenv.Load()

	def := DefaultConfig()
	v := viper.New()
	v.SetDefault("env", def.Env)
	v.SetDefault("db", def.DBPath)
	v.SetDefault("api.url", def.API.BaseURL)
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", def.API.Timeout)
	v.SetDefault("user.id", "")
	v.SetDefault("user.player_name", "")
	v.SetDefault("subscription.refresh_debounce", def.Subscription.RefreshDebounce)
	v.SetDefault("subscription.settle_delay", def.Subscription.SettleDelay)
	v.SetDefault("subscription.follow_up_delay", def.Subscription.FollowUpDelay)
	v.SetDefault("quiz.question_time", def.Quiz.QuestionTime)
	v.SetDefault("payment.upi_id", "")
	v.SetDefault("payment.upi_name", "")
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", "")
	v.SetDefault("devserver.addr", def.DevServer.Addr)
	v.SetDefault("devserver.free_quota", def.DevServer.FreeQuota)
	v.SetDefault("devserver.release_mode", false)

	v.SetEnvPrefix("QUIZLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api.url", "QUIZLY_API_URL", "VITE_API_URL")
	_ = v.BindEnv("user.id", "QUIZLY_USER_ID")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Quiz.QuestionTime <= 0 {
		return fmt.Errorf("quiz.question_time must be positive")
	}
	// Zero would silently fall back to the service defaults.
	if c.Subscription.RefreshDebounce <= 0 {
		return fmt.Errorf("subscription.refresh_debounce must be positive")
	}
	if c.Subscription.SettleDelay <= 0 {
		return fmt.Errorf("subscription.settle_delay must be positive")
	}
	if c.Subscription.FollowUpDelay <= 0 {
		return fmt.Errorf("subscription.follow_up_delay must be positive")
	}
	return nil
}

// configDir returns $XDG_CONFIG_HOME/quizly or ~/.config/quizly.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "quizly"), nil
}

// DefaultLogPath returns $XDG_STATE_HOME/quizly/quizly.log, creating the
// parent directory.
func DefaultLogPath() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".local", "state")
	}
	p := filepath.Join(base, "quizly", "quizly.log")
	return p, os.MkdirAll(filepath.Dir(p), 0o755)
}
