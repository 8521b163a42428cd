package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"snort-dashboard/internal/metrics"
	"snort-dashboard/internal/model"
	"snort-dashboard/internal/parser"
	"snort-dashboard/internal/paths"
	"snort-dashboard/internal/utils"

	"github.com/sirupsen/logrus"
)

// Processor reads resolved log files, parses every line and emits alerts
type Processor struct {
	chain    *parser.Chain
	resolver *paths.Resolver
	logger   *logrus.Logger
	metrics  *metrics.Metrics

	// line source, utils.ScanLines unless replaced in tests
	scan func(path string, fn func(line string) bool) error
}

// NewProcessor creates a new processor instance
func NewProcessor(chain *parser.Chain, resolver *paths.Resolver, logger *logrus.Logger, m *metrics.Metrics) *Processor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Processor{
		chain:    chain,
		resolver: resolver,
		logger:   logger,
		metrics:  m,
		scan:     utils.ScanLines,
	}
}

// Each parses path line by line and hands every alert to emit.
// Blank and unrecognized lines are skipped; only an unreadable file is an error.
func (p *Processor) Each(path string, emit func(model.Alert)) error {
	skipped := 0
	err := p.scan(path, func(line string) bool {
		alert, ok := p.chain.Parse(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				skipped++
				p.metrics.RecordSkipped()
			}
			return true
		}
		alert.Source = path
		p.metrics.RecordParsed(string(alert.Format))
		emit(alert)
		return true
	})
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"path":  path,
			"error": err,
		}).Debug("Failed to read log file")
		p.metrics.RecordFSError(metrics.OpRead)
		return err
	}

	p.metrics.RecordFileRead()
	if skipped > 0 {
		p.logger.WithFields(logrus.Fields{
			"path":    path,
			"skipped": skipped,
		}).Debug("Skipped unrecognized log lines")
	}
	return nil
}

// ReadFile returns every alert parsed from path
func (p *Processor) ReadFile(path string) ([]model.Alert, error) {
	var alerts []model.Alert
	err := p.Each(path, func(a model.Alert) {
		alerts = append(alerts, a)
	})
	return alerts, err
}

// LoadFirst reads resolved files in order; the first one yielding any alert wins
func (p *Processor) LoadFirst(candidates []string) ([]model.Alert, []model.ActiveFile) {
	for _, path := range p.resolver.Resolve(candidates) {
		// a read error keeps whatever was parsed before it
		alerts, _ := p.ReadFile(path)
		if len(alerts) == 0 {
			continue
		}
		return alerts, []model.ActiveFile{activeFile(path)}
	}
	return []model.Alert{}, []model.ActiveFile{}
}

// Fold streams the alerts of every resolved file to emit and reports the files that
// contributed at least one alert
func (p *Processor) Fold(candidates []string, emit func(model.Alert)) []model.ActiveFile {
	active := []model.ActiveFile{}
	for _, path := range p.resolver.All(candidates) {
		n := 0
		err := p.Each(path, func(a model.Alert) {
			n++
			emit(a)
		})
		if err == nil && n > 0 {
			active = append(active, activeFile(path))
		}
	}
	return active
}

// LoadAll concatenates the alerts of every resolved file
func (p *Processor) LoadAll(candidates []string) ([]model.Alert, []model.ActiveFile) {
	alerts := []model.Alert{}
	active := p.Fold(candidates, func(a model.Alert) {
		alerts = append(alerts, a)
	})
	return alerts, active
}

// Clear truncates every resolved log file
func (p *Processor) Clear(candidates []string) model.ClearResult {
	return p.ClearFiles(p.resolver.All(candidates))
}

// ClearFiles truncates each path to zero length without creating missing files.
// Failures are collected per file and never stop the remaining ones.
func (p *Processor) ClearFiles(files []string) model.ClearResult {
	result := model.ClearResult{Errors: []model.ClearError{}}
	seen := make(map[string]struct{}, len(files))

	for _, path := range files {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
		if err == nil {
			err = f.Close()
		}
		if err != nil {
			p.logger.WithFields(logrus.Fields{
				"path":  path,
				"error": err,
			}).Warn("Failed to clear log file")
			p.metrics.RecordFSError(metrics.OpClear)
			result.Errors = append(result.Errors, model.ClearError{Path: path, Message: err.Error()})
			continue
		}
		result.Cleared++
	}

	p.metrics.RecordCleared(result.Cleared)
	p.logger.WithFields(logrus.Fields{
		"cleared": result.Cleared,
		"errors":  len(result.Errors),
	}).Info("Cleared log files")
	return result
}

func activeFile(path string) model.ActiveFile {
	return model.ActiveFile{Name: filepath.Base(path), Path: path}
}
