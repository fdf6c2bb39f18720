package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Quiz    QuizConfig    `mapstructure:"quiz"`
	Import  ImportConfig  `mapstructure:"import"`
	Reports ReportsConfig `mapstructure:"reports"`
}

type StoreConfig struct {
	Path       string `mapstructure:"path" validate:"required"`
	QuotaBytes int64  `mapstructure:"quota_bytes" validate:"min=0"`
}

type QuizConfig struct {
	QuestionCount int `mapstructure:"question_count" validate:"min=1"`
}

type ImportConfig struct {
	RetryAttempts int `mapstructure:"retry_attempts" validate:"min=1"`
}

type ReportsConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/quizfolio")
	}

	v.SetDefault("store.path", "quizfolio.db")
	v.SetDefault("store.quota_bytes", 5*1024*1024)
	v.SetDefault("quiz.question_count", 10)
	v.SetDefault("import.retry_attempts", 3)
	v.SetDefault("reports.directory", "reports")

	// The store location may come from the environment so scripts can point
	// commands at a scratch database without a config file.
	if err := v.BindEnv("store.path", "QUIZFOLIO_STORE_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind QUIZFOLIO_STORE_PATH environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	return &cfg, nil
}
