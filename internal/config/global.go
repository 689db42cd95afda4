package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Kafka   *KafkaConfig   `validate:"required"`
	MongoDB *MongoDBConfig `validate:"required"`
	Webhook *WebhookConfig

	Bottler BottlerConfig

	Development bool

	Port        uint16 `validate:"required"`
	MetricsPort uint16
}

type KafkaConfig struct {
	Host string `validate:"required"`
	Port int    `validate:"required,min=1,max=65535"`
}

type MongoDBConfig struct {
	URI string `validate:"required"`
}

// WebhookConfig enables announcements of large bottles. Empty ID or Token disables it.
type WebhookConfig struct {
	ID        string
	Token     string
	Threshold int32 `validate:"min=0"`
}

func (c *WebhookConfig) Enabled() bool {
	return c != nil && c.ID != "" && c.Token != ""
}

var validate = validator.New()

func LoadGlobalConfig() (config *Config, err error) {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("port", 10006)
	viper.SetDefault("metricsPort", 8081)

	viper.SetConfigName("config")
	viper.AddConfigPath(".")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	config.Bottler, err = LoadBottlerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load bottler config: %w", err)
	}

	if err = validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return
}
