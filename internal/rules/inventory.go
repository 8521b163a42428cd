package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"snort-dashboard/internal/metrics"
	"snort-dashboard/internal/model"
	"snort-dashboard/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	// FallbackRulesDir is always searched after the configured directories
	FallbackRulesDir = "/usr/local/etc/rules/"

	DefaultExtension       = ".rules"
	DefaultMaxCountBytes   = 5 * 1024 * 1024
	DefaultMaxPreviewLines = 5000
)

// Inventory lists Snort rule files and reads rule and IP list files
type Inventory struct {
	Dirs            []string
	FallbackDir     string
	Extensions      []string
	MaxCountBytes   int64
	MaxPreviewLines int

	logger  *logrus.Logger
	metrics *metrics.Metrics
}

// NewInventory creates a new inventory over dirs with default limits
func NewInventory(dirs []string, logger *logrus.Logger, m *metrics.Metrics) *Inventory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Inventory{
		Dirs:            dirs,
		FallbackDir:     FallbackRulesDir,
		Extensions:      []string{DefaultExtension},
		MaxCountBytes:   DefaultMaxCountBytes,
		MaxPreviewLines: DefaultMaxPreviewLines,
		logger:          logger,
		metrics:         m,
	}
}

// directories returns the configured dirs followed by FallbackDir, without repeats
func (inv *Inventory) directories() []string {
	seen := make(map[string]struct{})
	dirs := make([]string, 0, len(inv.Dirs)+1)
	for _, d := range append(append([]string{}, inv.Dirs...), inv.FallbackDir) {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}
	return dirs
}

func (inv *Inventory) hasExtension(name string) bool {
	exts := inv.Extensions
	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// List returns every rule file of the searched directories sorted by name, case-insensitively
func (inv *Inventory) List() []model.RuleFile {
	files := []model.RuleFile{}
	seen := make(map[string]struct{})

	for _, dir := range inv.directories() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				inv.fsError(metrics.OpList, dir, err)
			}
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if !inv.hasExtension(name) {
				continue
			}
			path := filepath.Join(dir, name)
			if _, ok := seen[path]; ok {
				continue
			}

			info, err := os.Stat(path)
			if err != nil {
				inv.fsError(metrics.OpStat, path, err)
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			seen[path] = struct{}{}

			size := info.Size()
			modified := info.ModTime()
			file := model.RuleFile{
				Name:      name,
				Path:      path,
				Directory: dir,
				Size:      &size,
				Modified:  &modified,
			}
			if inv.MaxCountBytes <= 0 || size <= inv.MaxCountBytes {
				if n, err := CountRules(path); err == nil {
					file.RuleCount = &n
				} else {
					inv.fsError(metrics.OpCount, path, err)
				}
			}
			files = append(files, file)
		}
	}

	sort.SliceStable(files, func(i, j int) bool {
		return strings.ToLower(files[i].Name) < strings.ToLower(files[j].Name)
	})
	return files
}

// Select picks the file matching requested by name or path, else the first file.
// It returns nil when files is empty.
func Select(files []model.RuleFile, requested string) *model.RuleFile {
	if len(files) == 0 {
		return nil
	}
	requested = strings.TrimSpace(requested)
	if requested != "" {
		for i := range files {
			if files[i].Name == requested || files[i].Path == requested {
				return &files[i]
			}
		}
	}
	return &files[0]
}

// Preview reads path for display, keeping lines containing search (case-insensitive).
// Reading stops after MaxPreviewLines kept lines.
func (inv *Inventory) Preview(path, search string) model.RulePreview {
	preview := model.RulePreview{Lines: []model.RuleLine{}}
	if path == "" {
		return preview
	}

	limit := inv.MaxPreviewLines
	if limit <= 0 {
		limit = DefaultMaxPreviewLines
	}
	needle := strings.ToLower(strings.TrimSpace(search))

	number := 0
	err := utils.ScanLines(path, func(line string) bool {
		number++
		if needle != "" && !strings.Contains(strings.ToLower(line), needle) {
			return true
		}
		preview.Lines = append(preview.Lines, model.RuleLine{
			Number:    number,
			Content:   line,
			IsComment: strings.HasPrefix(strings.TrimSpace(line), "#"),
		})
		if len(preview.Lines) >= limit {
			preview.Truncated = true
			return false
		}
		return true
	})
	if err != nil {
		inv.fsError(metrics.OpRead, path, err)
		preview.Error = err.Error()
	}
	return preview
}

// TotalRules sums rule counts. Files the listing did not count are counted here without
// the size limit; unreadable files add nothing.
func (inv *Inventory) TotalRules(files []model.RuleFile) int {
	total := 0
	for _, f := range files {
		if f.RuleCount != nil {
			total += *f.RuleCount
			continue
		}
		n, err := CountRules(f.Path)
		if err != nil {
			inv.fsError(metrics.OpCount, f.Path, err)
			continue
		}
		total += n
	}
	return total
}

// KnownRules sums only the counts the listing produced
func KnownRules(files []model.RuleFile) int {
	total := 0
	for _, f := range files {
		if f.RuleCount != nil {
			total += *f.RuleCount
		}
	}
	return total
}

// CountRules counts the non-blank lines of path that are not # comments
func CountRules(path string) (int, error) {
	n := 0
	err := utils.ScanLines(path, func(line string) bool {
		if isEntry(line) {
			n++
		}
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count rules in %s: %w", path, err)
	}
	return n, nil
}

// ReadEntries returns the trimmed entries of an IP list file. A missing or
// unreadable file yields an empty list.
func (inv *Inventory) ReadEntries(path string) []string {
	entries := []string{}
	if strings.TrimSpace(path) == "" {
		return entries
	}
	err := utils.ScanLines(path, func(line string) bool {
		if isEntry(line) {
			entries = append(entries, strings.TrimSpace(line))
		}
		return true
	})
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			inv.fsError(metrics.OpRead, path, err)
		}
		return []string{}
	}
	return entries
}

// CountEntries counts the entries of an IP list file
func (inv *Inventory) CountEntries(path string) int {
	return len(inv.ReadEntries(path))
}

func isEntry(line string) bool {
	s := strings.TrimSpace(line)
	return s != "" && !strings.HasPrefix(s, "#")
}

func (inv *Inventory) fsError(op, path string, err error) {
	inv.logger.WithFields(logrus.Fields{
		"op":    op,
		"path":  path,
		"error": err,
	}).Debug("Rule inventory filesystem error")
	inv.metrics.RecordFSError(op)
}
