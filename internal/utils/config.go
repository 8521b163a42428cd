package utils

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"snort-dashboard/internal/paths"
)

// legacy Snort log locations, always searched after the configured ones
const (
	LegacyJSONLog = "/var/log/snort/alert_json.txt"
	LegacyFastLog = "/var/log/snort/alert_fast.txt"
)

type DashboardConfig struct {
	Server    ServerYAMLConfig    `yaml:"server"`
	Snort     SnortYAMLConfig     `yaml:"snort"`
	Dashboard DashboardYAMLConfig `yaml:"dashboard"`
	Logging   LoggingYAMLConfig   `yaml:"logging"`
}

type ServerYAMLConfig struct {
	Port           string   `yaml:"port"`
	AdminToken     string   `yaml:"admin_token"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type SnortYAMLConfig struct {
	RulesDirs           []string `yaml:"rules_dirs"`
	RuleExtensions      []string `yaml:"rule_extensions"`
	RuleCountMaxBytes   int64    `yaml:"rule_count_max_bytes"`
	RulePreviewMaxLines int      `yaml:"rule_preview_max_lines"`
	IPWhitelistPath     string   `yaml:"ip_whitelist_path"`
	IPBlocklistPath     string   `yaml:"ip_blocklist_path"`
	LogJSONPath         string   `yaml:"log_json_path"`
	LogFastPath         string   `yaml:"log_fast_path"`
	LogPath             string   `yaml:"log_path"`
	DashboardLogPath    string   `yaml:"dashboard_log_path"`
}

type DashboardYAMLConfig struct {
	Timezone      string   `yaml:"timezone"`
	PageSize      int      `yaml:"page_size"`
	WeekdayLabels []string `yaml:"weekday_labels"`
}

type LoggingYAMLConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Validate fills defaults for missing values. Only an unknown timezone is an error.
func (c *DashboardConfig) Validate() error {
	if c.Server.Port == "" {
		c.Server.Port = "5001"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = defaultAllowedOrigins()
	}

	if len(c.Snort.RulesDirs) == 0 {
		c.Snort.RulesDirs = []string{"/usr/local/etc/snort/rules"}
	}
	if len(c.Snort.RuleExtensions) == 0 {
		c.Snort.RuleExtensions = []string{".rules"}
	}
	if c.Snort.RuleCountMaxBytes <= 0 {
		c.Snort.RuleCountMaxBytes = 5 * 1024 * 1024
	}
	if c.Snort.RulePreviewMaxLines <= 0 {
		c.Snort.RulePreviewMaxLines = 5000
	}
	if c.Snort.IPWhitelistPath == "" {
		c.Snort.IPWhitelistPath = "/usr/local/etc/snort/whitelist.txt"
	}
	if c.Snort.IPBlocklistPath == "" {
		c.Snort.IPBlocklistPath = "/usr/local/etc/snort/blocklist.txt"
	}
	if c.Snort.LogJSONPath == "" {
		c.Snort.LogJSONPath = LegacyJSONLog
	}
	if c.Snort.LogFastPath == "" {
		c.Snort.LogFastPath = LegacyFastLog
	}
	if c.Snort.LogPath == "" {
		c.Snort.LogPath = c.Snort.LogJSONPath
	}
	if c.Snort.DashboardLogPath == "" {
		c.Snort.DashboardLogPath = c.Snort.LogFastPath
	}

	if c.Dashboard.Timezone == "" {
		c.Dashboard.Timezone = "Asia/Jakarta"
	}
	if c.Dashboard.PageSize <= 0 {
		c.Dashboard.PageSize = 50
	}
	if len(c.Dashboard.WeekdayLabels) != 7 {
		c.Dashboard.WeekdayLabels = []string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	c.Logging.Level = strings.ToUpper(c.Logging.Level)
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone, "Local" meaning the host zone
func (c *DashboardConfig) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Dashboard.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return loc, nil
}

// LogViewCandidates are the locations searched for the alert list, JSON first
func (c *DashboardConfig) LogViewCandidates() []string {
	return paths.Candidates(
		[]string{c.Snort.LogJSONPath, c.Snort.LogPath, c.Snort.LogFastPath},
		LegacyJSONLog, LegacyFastLog,
	)
}

// DashboardCandidates are the locations aggregated for the charts, fast first
func (c *DashboardConfig) DashboardCandidates() []string {
	return paths.Candidates(
		[]string{c.Snort.DashboardLogPath, c.Snort.LogFastPath, c.Snort.LogPath},
		LegacyFastLog, LegacyJSONLog,
	)
}

// ClearCandidates covers every location either view reads
func (c *DashboardConfig) ClearCandidates() []string {
	return paths.Candidates(c.LogViewCandidates(), c.DashboardCandidates()...)
}

func defaultAllowedOrigins() []string {
	return []string{
		"http://localhost:5000",
		"http://localhost:3000",
		"http://127.0.0.1:5000",
		"http://127.0.0.1:3000",
	}
}

// GetDefaultConfig returns a default DashboardConfig
func GetDefaultConfig() *DashboardConfig {
	config := &DashboardConfig{}
	_ = config.Validate()
	return config
}
