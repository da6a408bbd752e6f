package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	ErrInvalidBlacklistEntry = errors.New("invalid unfreeze_blacklist entry")
	ErrInvalidLevels         = errors.New("invalid power level thresholds")
)

type Config struct {
	Mode              string   `mapstructure:"mode"`
	Port              int      `mapstructure:"port"`
	ServerName        string   `mapstructure:"server_name"`
	UnfreezeBlacklist []string `mapstructure:"unfreeze_blacklist"`
	PromoteModerators bool     `mapstructure:"promote_moderators"`
	AdminLevel        int      `mapstructure:"admin_level"`
	ModeratorLevel    int      `mapstructure:"moderator_level"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("server_name", "")
	v.SetDefault("unfreeze_blacklist", []string{})
	v.SetDefault("promote_moderators", false)
	v.SetDefault("admin_level", 100)
	v.SetDefault("moderator_level", 50)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unusable policy knobs. Called at load time; a failure
// here is fatal to startup, never handled per request.
func (c *Config) Validate() error {
	for _, server := range c.UnfreezeBlacklist {
		if server == "" || strings.ContainsAny(server, "@ \t") {
			return fmt.Errorf("%w: %q", ErrInvalidBlacklistEntry, server)
		}
	}
	if c.AdminLevel <= 0 {
		return fmt.Errorf("%w: admin_level %d must be positive", ErrInvalidLevels, c.AdminLevel)
	}
	if c.ModeratorLevel < 0 || c.ModeratorLevel >= c.AdminLevel {
		return fmt.Errorf("%w: moderator_level %d must be in [0, admin_level)", ErrInvalidLevels, c.ModeratorLevel)
	}
	return nil
}
