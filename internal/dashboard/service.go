// Package dashboard answers the queries of the HTTP API and the CLI by combining
// the resolver, parsers, filter engine, aggregator and rule inventory.
// Every call re-reads the filesystem; nothing is cached between calls.
package dashboard

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"snort-dashboard/internal/aggregate"
	"snort-dashboard/internal/metrics"
	"snort-dashboard/internal/model"
	"snort-dashboard/internal/parser"
	"snort-dashboard/internal/paths"
	"snort-dashboard/internal/pipeline"
	"snort-dashboard/internal/rules"
	"snort-dashboard/internal/storage"
	"snort-dashboard/internal/timestamp"
	"snort-dashboard/internal/utils"

	"github.com/sirupsen/logrus"
)

// LogsView is one page of the filtered alert list
type LogsView struct {
	storage.PageResult
	Filters     model.Filter       `json:"filters"`
	ActiveFiles []model.ActiveFile `json:"active_files"`
}

// DashboardData is the flat payload behind the dashboard charts
type DashboardData struct {
	TotalAlerts      int      `json:"total_alerts"`
	TotalRules       int      `json:"total_rules"`
	TotalIPWhitelist int      `json:"total_ip_whitelist"`
	TotalIPBlocklist int      `json:"total_ip_blocklist"`
	AlertHourLabels  []string `json:"alert_hour_labels"`
	AlertHourAlert   []int    `json:"alert_hour_alert"`
	AlertHourDrop    []int    `json:"alert_hour_drop"`
	AlertWeekLabels  []string `json:"alert_week_labels"`
	AlertWeekAlert   []int    `json:"alert_week_alert"`
	AlertWeekDrop    []int    `json:"alert_week_drop"`

	ActiveFiles []model.ActiveFile `json:"active_files"`
}

// RulesView lists the rule files and previews the selected one
type RulesView struct {
	RuleFiles      []model.RuleFile `json:"rule_files"`
	SelectedFile   *model.RuleFile  `json:"selected_file"`
	RulesPreview   []model.RuleLine `json:"rules_preview"`
	SearchTerm     string           `json:"search_term"`
	ReadError      string           `json:"read_error"`
	Truncated      bool             `json:"truncated"`
	TotalRuleFiles int              `json:"total_rule_files"`
	TotalRulesAll  int              `json:"total_rules_all"`
}

// IPListView is the content of a whitelist or blocklist file
type IPListView struct {
	Entries []string `json:"entries"`
	Total   int      `json:"total"`
	Path    string   `json:"path"`
}

// Service is the query façade over the on-disk Snort artifacts
type Service struct {
	config     *utils.DashboardConfig
	location   *time.Location
	normalizer *timestamp.Normalizer
	processor  *pipeline.Processor
	inventory  *rules.Inventory
	logger     *logrus.Logger

	now func() time.Time
}

// NewService creates a new service instance from a validated config
func NewService(config *utils.DashboardConfig, logger *logrus.Logger, m *metrics.Metrics) (*Service, error) {
	if config == nil {
		config = utils.GetDefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	loc, err := config.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve timezone: %w", err)
	}

	s := &Service{
		config:   config,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}

	s.normalizer = timestamp.New(loc)
	s.normalizer.Now = s.clock

	resolver := paths.NewResolver(logger, m)
	s.processor = pipeline.NewProcessor(parser.Default(s.normalizer), resolver, logger, m)

	inv := rules.NewInventory(config.Snort.RulesDirs, logger, m)
	inv.Extensions = config.Snort.RuleExtensions
	inv.MaxCountBytes = config.Snort.RuleCountMaxBytes
	inv.MaxPreviewLines = config.Snort.RulePreviewMaxLines
	s.inventory = inv

	return s, nil
}

// SetClock replaces the wall clock used for year-less timestamps and chart windows
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Inventory exposes the rule inventory, mostly for tests and the CLI
func (s *Service) Inventory() *rules.Inventory {
	return s.inventory
}

func (s *Service) clock() time.Time {
	return s.now()
}

// Logs returns one page of alerts from the first log source that yields any
func (s *Service) Logs(query url.Values) LogsView {
	alerts, active := s.processor.LoadFirst(s.config.LogViewCandidates())
	filter := model.FilterFromQuery(query, s.normalizer)

	page := storage.NewStore(alerts).Query(filter, query.Get("page"), s.config.Dashboard.PageSize)

	s.logger.WithFields(logrus.Fields{
		"alerts":   len(alerts),
		"filtered": page.Total,
		"page":     page.Page,
	}).Debug("Served alert list")

	return LogsView{
		PageResult:  page,
		Filters:     filter,
		ActiveFiles: active,
	}
}

// Dashboard aggregates every dashboard log source into totals and chart series
func (s *Service) Dashboard() DashboardData {
	agg := aggregate.New(s.location, s.config.Dashboard.WeekdayLabels)
	agg.Now = s.clock

	total := 0
	active := s.processor.Fold(s.config.DashboardCandidates(), func(a model.Alert) {
		total++
		agg.Add(a)
	})
	trends := agg.Trends()

	return DashboardData{
		TotalAlerts:      total,
		TotalRules:       s.inventory.TotalRules(s.inventory.List()),
		TotalIPWhitelist: s.inventory.CountEntries(s.config.Snort.IPWhitelistPath),
		TotalIPBlocklist: s.inventory.CountEntries(s.config.Snort.IPBlocklistPath),
		AlertHourLabels:  model.HourLabels(),
		AlertHourAlert:   trends.Hourly.Alert[:],
		AlertHourDrop:    trends.Hourly.Drop[:],
		AlertWeekLabels:  trends.WeekdayLabels,
		AlertWeekAlert:   trends.Weekly.Alert[:],
		AlertWeekDrop:    trends.Weekly.Drop[:],
		ActiveFiles:      active,
	}
}

// Rules lists rule files and previews the requested one (or the first)
func (s *Service) Rules(file, search string) RulesView {
	files := s.inventory.List()
	search = strings.TrimSpace(search)

	view := RulesView{
		RuleFiles:      files,
		RulesPreview:   []model.RuleLine{},
		SearchTerm:     search,
		TotalRuleFiles: len(files),
		TotalRulesAll:  rules.KnownRules(files),
	}

	selected := rules.Select(files, file)
	if selected == nil {
		return view
	}
	view.SelectedFile = selected

	preview := s.inventory.Preview(selected.Path, search)
	view.RulesPreview = preview.Lines
	view.ReadError = preview.Error
	view.Truncated = preview.Truncated
	return view
}

// Whitelist returns the entries of the allow list
func (s *Service) Whitelist() IPListView {
	return s.ipList(s.config.Snort.IPWhitelistPath)
}

// Blocklist returns the entries of the deny list
func (s *Service) Blocklist() IPListView {
	return s.ipList(s.config.Snort.IPBlocklistPath)
}

func (s *Service) ipList(path string) IPListView {
	entries := s.inventory.ReadEntries(path)
	return IPListView{Entries: entries, Total: len(entries), Path: path}
}

// ClearLogs truncates every log file either view reads
func (s *Service) ClearLogs() model.ClearResult {
	return s.processor.Clear(s.config.ClearCandidates())
}
