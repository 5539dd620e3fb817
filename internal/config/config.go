package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Mandi   MandiConfig   `yaml:"mandi" mapstructure:"mandi"`
	Model   ModelConfig   `yaml:"model" mapstructure:"model"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
}

// ServerConfig configures the HTTP service shell.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MandiConfig configures the market price feed.
type MandiConfig struct {
	APIKey     string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	ResourceID string        `yaml:"resource_id" mapstructure:"resource_id"`
	State      string        `yaml:"state" mapstructure:"state"`
	Limit      int           `yaml:"limit" mapstructure:"limit"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ModelConfig configures the external yield model endpoint.
type ModelConfig struct {
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CatalogConfig locates the static data files loaded at startup.
type CatalogConfig struct {
	CropMasterPath    string `yaml:"crop_master_path" mapstructure:"crop_master_path"`
	RainfallTablePath string `yaml:"rainfall_table_path" mapstructure:"rainfall_table_path"`
}

// StoreConfig configures run-history persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// BatchConfig configures batch scenario evaluation.
type BatchConfig struct {
	MaxConcurrentScenarios int `yaml:"max_concurrent_scenarios" mapstructure:"max_concurrent_scenarios"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CROPADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("mandi.base_url", "https://api.data.gov.in")
	v.SetDefault("mandi.resource_id", "9ef84268-d588-465a-a308-a864a43d0070")
	v.SetDefault("mandi.state", "Karnataka")
	v.SetDefault("mandi.limit", 300)
	v.SetDefault("mandi.timeout", 10*time.Second)
	v.SetDefault("model.endpoint", "http://localhost:9000/predict")
	v.SetDefault("model.timeout", 5*time.Second)
	v.SetDefault("catalog.crop_master_path", "karnataka_crop_master.csv")
	v.SetDefault("store.path", "cropadvisor.db")
	v.SetDefault("batch.max_concurrent_scenarios", 4)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
