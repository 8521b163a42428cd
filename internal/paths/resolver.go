// Package paths turns configured and legacy log locations into the ordered
// list of files that actually exist.
package paths

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"snort-dashboard/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Candidates joins configured locations and fallbacks, dropping empty entries and repeats
func Candidates(configured []string, fallbacks ...string) []string {
	seen := make(map[string]struct{}, len(configured)+len(fallbacks))
	out := make([]string, 0, len(configured)+len(fallbacks))

	for _, list := range [][]string{configured, fallbacks} {
		for _, p := range list {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// Resolver expands candidates into existing regular files
type Resolver struct {
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

// NewResolver creates a new resolver instance
func NewResolver(logger *logrus.Logger, m *metrics.Metrics) *Resolver {
	if logger == nil {
		logger = logrus.New()
	}
	return &Resolver{logger: logger, metrics: m}
}

// Resolve walks candidates in order. A directory contributes its immediate regular
// files, newest first; a file contributes itself; anything missing is skipped.
func (r *Resolver) Resolve(candidates []string) []string {
	seen := make(map[string]struct{})
	files := make([]string, 0, len(candidates))

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil {
			if !os.IsNotExist(err) {
				r.fsError(metrics.OpResolve, candidate, err)
			}
			continue
		}

		if info.IsDir() {
			for _, p := range r.listDir(candidate) {
				add(p)
			}
			continue
		}
		if info.Mode().IsRegular() {
			add(candidate)
		}
	}

	return files
}

// First returns the first resolved file
func (r *Resolver) First(candidates []string) (string, bool) {
	files := r.Resolve(candidates)
	if len(files) == 0 {
		return "", false
	}
	return files[0], true
}

// All returns every resolved file
func (r *Resolver) All(candidates []string) []string {
	return r.Resolve(candidates)
}

type dirFile struct {
	path    string
	modTime time.Time
	known   bool
}

func (r *Resolver) listDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		r.fsError(metrics.OpList, dir, err)
		return nil
	}

	files := make([]dirFile, 0, len(entries))
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		info, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			// dangling symlink or removed since listing
			continue
		}
		if err != nil {
			r.fsError(metrics.OpStat, p, err)
			files = append(files, dirFile{path: p})
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, dirFile{path: p, modTime: info.ModTime(), known: true})
	}

	// newest first; equal or unknown mtimes fall back to reverse lexical order
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.known && b.known && !a.modTime.Equal(b.modTime) {
			return a.modTime.After(b.modTime)
		}
		if a.known != b.known {
			return a.known
		}
		return a.path > b.path
	})

	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.path)
	}
	return out
}

func (r *Resolver) fsError(op, path string, err error) {
	r.logger.WithFields(logrus.Fields{
		"op":    op,
		"path":  path,
		"error": err,
	}).Debug("Skipping unreadable log location")
	r.metrics.RecordFSError(op)
}
