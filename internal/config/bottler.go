package config

import (
	"errors"
	"slices"
	"time"

	"github.com/spf13/viper"

	"experience-bottler/internal/item"
)

type BottlerConfig struct {
	// Presets are the bottle amounts offered in the creative item group
	Presets []int32 `validate:"dive,gt=0"`

	// SessionTTL is how long an open bottler survives without activity
	SessionTTL  time.Duration `validate:"gt=0"`
	MaxSessions int           `validate:"gt=0"`

	// MaxUseTime is the number of ticks drinking a bottle takes
	MaxUseTime int `validate:"gt=0"`
}

func DefaultBottlerConfig() BottlerConfig {
	return BottlerConfig{
		Presets:     slices.Clone(item.DefaultPresets),
		SessionTTL:  10 * time.Minute,
		MaxSessions: 1024,
		MaxUseTime:  item.DefaultMaxUseTime,
	}
}

// LoadBottlerConfig reads ./bottler-config/config.yaml on top of the defaults.
// A missing file is not an error.
func LoadBottlerConfig() (config BottlerConfig, err error) {
	config = DefaultBottlerConfig()

	v := viper.New()
	v.AddConfigPath("./bottler-config")
	v.SetConfigName("config")

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return config, validate.Struct(config)
		}
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, validate.Struct(config)
}
