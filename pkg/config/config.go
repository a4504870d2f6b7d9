package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	WebSocket   WebSocketConfig   `mapstructure:"websocket"`
	SecurityLog SecurityLogConfig `mapstructure:"security_log"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	RoleCache   RoleCacheConfig   `mapstructure:"role_cache"`
	Proctoring  ProctoringConfig  `mapstructure:"proctoring"`
}

type ServerConfig struct {
	AdminPort   int    `mapstructure:"admin_port"`
	ProctorPort int    `mapstructure:"proctor_port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	Type        string `mapstructure:"type"`
	SecretKey   string `mapstructure:"secret_key"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type WebSocketConfig struct {
	MaxConnections int           `mapstructure:"max_connections"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
}

type SecurityLogConfig struct {
	Workers            int           `mapstructure:"workers"`
	QueueSize          int           `mapstructure:"queue_size"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
}

type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	Topic   string `mapstructure:"topic"`
}

type RoleCacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ProctoringConfig holds the timing and threshold knobs of the detectors.
// Zero values fall back to the defaults below.
type ProctoringConfig struct {
	Debounce            time.Duration `mapstructure:"debounce"`
	ContinuousInterval  time.Duration `mapstructure:"continuous_interval"`
	MaxViolations       int           `mapstructure:"max_violations"`
	ContextMenuCooldown time.Duration `mapstructure:"context_menu_cooldown"`
	RedirectDelay       time.Duration `mapstructure:"redirect_delay"`
	DevtoolsThreshold   int           `mapstructure:"devtools_threshold"`
	ResultPathTemplate  string        `mapstructure:"result_path_template"`
}

const (
	DefaultDebounce            = 5 * time.Second
	DefaultContinuousInterval  = 5 * time.Second
	DefaultMaxViolations       = 3
	DefaultContextMenuCooldown = 3 * time.Second
	DefaultRedirectDelay       = 2 * time.Second
	DefaultDevtoolsThreshold   = 160
	DefaultResultPathTemplate  = "/assessment/%s/result?session=%s"
)

func DefaultProctoringConfig() ProctoringConfig {
	return ProctoringConfig{
		Debounce:            DefaultDebounce,
		ContinuousInterval:  DefaultContinuousInterval,
		MaxViolations:       DefaultMaxViolations,
		ContextMenuCooldown: DefaultContextMenuCooldown,
		RedirectDelay:       DefaultRedirectDelay,
		DevtoolsThreshold:   DefaultDevtoolsThreshold,
		ResultPathTemplate:  DefaultResultPathTemplate,
	}
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}
	setDefaultValues(&globalConfig)
	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues(cfg *Config) {
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.WebSocket.MaxConnections <= 0 {
		cfg.WebSocket.MaxConnections = 1000
	}
	if cfg.WebSocket.PongWait <= 0 {
		cfg.WebSocket.PongWait = 45 * time.Second
	}
	if cfg.WebSocket.PingPeriod <= 0 || cfg.WebSocket.PingPeriod >= cfg.WebSocket.PongWait {
		cfg.WebSocket.PingPeriod = cfg.WebSocket.PongWait * 2 / 3
	}
	if cfg.SecurityLog.Workers <= 0 {
		cfg.SecurityLog.Workers = 4
	}
	if cfg.SecurityLog.QueueSize <= 0 {
		cfg.SecurityLog.QueueSize = 1000
	}
	if cfg.SecurityLog.BreakerTimeout <= 0 {
		cfg.SecurityLog.BreakerTimeout = 30 * time.Second
	}
	if cfg.SecurityLog.BreakerMaxFailures == 0 {
		cfg.SecurityLog.BreakerMaxFailures = 5
	}
	if cfg.RoleCache.TTL <= 0 {
		cfg.RoleCache.TTL = 5 * time.Minute
	}
	cfg.Proctoring = cfg.Proctoring.WithDefaults()
}

// WithDefaults fills every unset knob with its default.
func (p ProctoringConfig) WithDefaults() ProctoringConfig {
	d := DefaultProctoringConfig()
	if p.Debounce <= 0 {
		p.Debounce = d.Debounce
	}
	if p.ContinuousInterval <= 0 {
		p.ContinuousInterval = d.ContinuousInterval
	}
	if p.MaxViolations <= 0 {
		p.MaxViolations = d.MaxViolations
	}
	if p.ContextMenuCooldown <= 0 {
		p.ContextMenuCooldown = d.ContextMenuCooldown
	}
	if p.RedirectDelay <= 0 {
		p.RedirectDelay = d.RedirectDelay
	}
	if p.DevtoolsThreshold <= 0 {
		p.DevtoolsThreshold = d.DevtoolsThreshold
	}
	if p.ResultPathTemplate == "" {
		p.ResultPathTemplate = d.ResultPathTemplate
	}
	return p
}

func GetConfig() *Config {
	return &globalConfig
}
