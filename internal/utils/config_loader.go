package utils

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is used when no config path is given
const DefaultConfigFile = "configs/snort_dashboard.yaml"

// environment variables understood on top of the YAML file
var envBindings = map[string]string{
	"server.port":              "SNORT_DASHBOARD_PORT",
	"server.admin_token":       "SNORT_DASHBOARD_ADMIN_TOKEN",
	"snort.rules_dir":          "SNORT_RULES_DIR",
	"snort.ip_whitelist_path":  "SNORT_IP_WHITELIST_PATH",
	"snort.ip_blocklist_path":  "SNORT_IP_BLOCKLIST_PATH",
	"snort.log_json_path":      "SNORT_LOG_JSON_PATH",
	"snort.log_fast_path":      "SNORT_LOG_FAST_PATH",
	"snort.log_path":           "SNORT_LOG_PATH",
	"snort.dashboard_log_path": "SNORT_DASHBOARD_LOG_PATH",
	"dashboard.timezone":       "SNORT_TIMEZONE",
	"logging.level":            "SNORT_DASHBOARD_LOG_LEVEL",
}

// LoadConfig reads filename, applies environment overrides and fills defaults.
// A missing file is not an error: defaults are used and a warning is logged.
func LoadConfig(filename string, logger *logrus.Logger) (*DashboardConfig, error) {
	if filename == "" {
		filename = DefaultConfigFile
	}

	var config DashboardConfig
	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if logger != nil {
			logger.Warnf("Config file %s not found, using defaults", filename)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file %s: %w", filename, err)
		}
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// applyEnv overrides config with the variables of envBindings that are set
func applyEnv(config *DashboardConfig) error {
	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	set := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	set("server.port", &config.Server.Port)
	set("server.admin_token", &config.Server.AdminToken)
	set("snort.ip_whitelist_path", &config.Snort.IPWhitelistPath)
	set("snort.ip_blocklist_path", &config.Snort.IPBlocklistPath)
	set("snort.log_json_path", &config.Snort.LogJSONPath)
	set("snort.log_fast_path", &config.Snort.LogFastPath)
	set("snort.log_path", &config.Snort.LogPath)
	set("snort.dashboard_log_path", &config.Snort.DashboardLogPath)
	set("dashboard.timezone", &config.Dashboard.Timezone)
	set("logging.level", &config.Logging.Level)

	// the env rules dir is searched before the configured ones
	if v.IsSet("snort.rules_dir") {
		if dir := v.GetString("snort.rules_dir"); dir != "" {
			config.Snort.RulesDirs = append([]string{dir}, config.Snort.RulesDirs...)
		}
	}
	return nil
}
