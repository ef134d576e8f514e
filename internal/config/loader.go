package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TASKDIGEST_SLACK_TOKEN.
const EnvPrefix = "TASKDIGEST"

// legacyEnv keeps the variable names used by existing deployments working.
var legacyEnv = map[string]string{
	"notion.token":       "NOTION_AUTH_KEY",
	"notion.database_id": "NOTION_DATABASE_ID",
	"slack.token":        "SLACK_API_TOKEN",
}

// LoadConfig loads and validates configuration from, in increasing priority:
//  1. Default values
//  2. The YAML file at path, or ./config.yaml when path is empty
//  3. TASKDIGEST_* environment variables (and the legacy names above)
//
// A missing ./config.yaml is fine; a missing explicit path is not.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := readConfig(v, path); err != nil {
		return nil, fmt.Errorf("%w: failed to load config file: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	slog.Debug("Configuration loaded",
		"file", v.ConfigFileUsed(),
		"database_id", cfg.Notion.DatabaseID,
		"channel", cfg.Slack.Channel,
		"checkpoints", cfg.Schedule.Checkpoints)
	return cfg, nil
}

func readConfig(v *viper.Viper, path string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}
