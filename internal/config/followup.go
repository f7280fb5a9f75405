package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FollowUpConfig controls the agent follow-up queue windows.
type FollowUpConfig struct {
	// UpcomingWindowDays is how far ahead a scheduled follow-up counts
	// as "upcoming" rather than out of view.
	UpcomingWindowDays int `mapstructure:"upcomingWindowDays"`
	// DueGraceDays keeps an overdue follow-up visible in the due queue.
	DueGraceDays int `mapstructure:"dueGraceDays"`
}

func DefaultFollowUpConfig() FollowUpConfig {
	return FollowUpConfig{
		UpcomingWindowDays: 2,
		DueGraceDays:       7,
	}
}

type FollowUpConfigHolder struct {
	current atomic.Value // holds FollowUpConfig
}

func NewFollowUpConfigHolder() (*FollowUpConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("followup")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/foodzippy/config")
	v.AddConfigPath("/etc/foodzippy")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FOODZIPPY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := loadFollowUpConfig(v)
	if err != nil {
		return nil, err
	}

	holder := &FollowUpConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated FollowUpConfig
		if err := v.UnmarshalKey("followup", &updated); err != nil {
			log.Printf("[followup-config] reload failed: %v", err)
			return
		}
		if err := validateFollowUpConfig(updated); err != nil {
			log.Printf("[followup-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[followup-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *FollowUpConfigHolder) Get() FollowUpConfig {
	return h.current.Load().(FollowUpConfig)
}

// NewStaticFollowUpConfigHolder builds a holder around a fixed config.
// Used by tests.
func NewStaticFollowUpConfigHolder(cfg FollowUpConfig) *FollowUpConfigHolder {
	holder := &FollowUpConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// loadFollowUpConfig registers defaults before reading so a config file
// that omits a key falls back instead of unmarshalling to zero.
func loadFollowUpConfig(v *viper.Viper) (FollowUpConfig, error) {
	defaults := DefaultFollowUpConfig()
	v.SetDefault("followup.upcomingWindowDays", defaults.UpcomingWindowDays)
	v.SetDefault("followup.dueGraceDays", defaults.DueGraceDays)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return FollowUpConfig{}, err
		}
	}

	var cfg FollowUpConfig
	if err := v.UnmarshalKey("followup", &cfg); err != nil {
		return FollowUpConfig{}, err
	}
	if err := validateFollowUpConfig(cfg); err != nil {
		return FollowUpConfig{}, err
	}
	return cfg, nil
}

func validateFollowUpConfig(cfg FollowUpConfig) error {
	if cfg.UpcomingWindowDays <= 0 {
		return errors.New("followup.upcomingWindowDays must be positive")
	}
	if cfg.DueGraceDays < 0 {
		return errors.New("followup.dueGraceDays cannot be negative")
	}
	return nil
}
