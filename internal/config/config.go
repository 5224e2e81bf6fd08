package config

import (
	"errors"

	"github.com/Niloux/chat-module/internal/llm"
	"github.com/spf13/viper"
)

type Config struct {
	DBPath   string `mapstructure:"db_path"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Username string `mapstructure:"username"`
}

// Load reads configuration from an optional YAML file, the environment, and
// defaults, in that order of precedence (flags override on top of this in
// the command layer). When file is empty a chat.yaml in the working
// directory is used if present.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetDefault("db_path", "deepseek.db")
	v.SetDefault("base_url", llm.DefaultBaseURL)
	v.SetDefault("model", llm.ModelChat)
	v.SetDefault("username", "default_user")
	if err := v.BindEnv("api_key", "DEEPSEEK_API_KEY"); err != nil {
		return nil, err
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("chat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
