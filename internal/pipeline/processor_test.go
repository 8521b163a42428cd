package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"snort-dashboard/internal/metrics"
	"snort-dashboard/internal/model"
	"snort-dashboard/internal/parser"
	"snort-dashboard/internal/paths"
	"snort-dashboard/internal/timestamp"
	"snort-dashboard/internal/utils"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fastLine = "01/15-14:23:01.000000 [**] [1:100:1] Test Alert [**] [Classification: test] [Priority: 2] {TCP} 10.0.0.1:80 -> 10.0.0.2:443"
	jsonLine = `{"timestamp":"2024-01-15T14:23:01Z","action":"drop","src_ip":"1.2.3.4","msg":"test"}`
)

func newTestProcessor(t *testing.T) (*Processor, *metrics.Metrics) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	n := timestamp.New(time.UTC)
	n.Now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	m := metrics.New()
	return NewProcessor(parser.Default(n), paths.NewResolver(logger, m), logger, m), m
}

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestReadFileSkipsNoise(t *testing.T) {
	p, m := newTestProcessor(t)
	path := filepath.Join(t.TempDir(), "mixed.log")
	writeLines(t, path,
		"",
		fastLine,
		"   ",
		"garbage without delimiters",
		jsonLine,
		"{broken json",
	)

	alerts, err := p.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, model.FormatFast, alerts[0].Format)
	assert.Equal(t, model.FormatJSON, alerts[1].Format)
	for _, a := range alerts {
		assert.Equal(t, path, a.Source)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LinesSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinesParsed.WithLabelValues("fast")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinesParsed.WithLabelValues("json")))
}

func TestReadFileLossyUTF8(t *testing.T) {
	p, _ := newTestProcessor(t)
	path := filepath.Join(t.TempDir(), "binary.log")
	line := "01/15-14:23:01 [**] [1:1:1] bad \xff\xfe bytes [**] {TCP} 1.1.1.1:1 -> 2.2.2.2:2\r\n"
	require.NoError(t, os.WriteFile(path, []byte(line), 0o644))

	alerts, err := p.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Signature, "�")
	assert.Equal(t, "2", alerts[0].DstPort)
}

func TestReadFileMissing(t *testing.T) {
	p, m := newTestProcessor(t)

	alerts, err := p.ReadFile(filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)
	assert.Empty(t, alerts)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FSErrors.WithLabelValues(metrics.OpRead)))
}

func TestLoadFirstSkipsEmptySources(t *testing.T) {
	p, _ := newTestProcessor(t)
	dir := t.TempDir()

	empty := filepath.Join(dir, "alert_json.txt")
	writeLines(t, empty, "noise only")
	fast := filepath.Join(dir, "alert_fast.txt")
	writeLines(t, fast, fastLine, fastLine)
	later := filepath.Join(dir, "later.txt")
	writeLines(t, later, jsonLine)

	alerts, active := p.LoadFirst([]string{filepath.Join(dir, "missing"), empty, fast, later})
	require.Len(t, alerts, 2)
	assert.Equal(t, []model.ActiveFile{{Name: "alert_fast.txt", Path: fast}}, active)
}

func TestLoadFirstNothing(t *testing.T) {
	p, _ := newTestProcessor(t)

	alerts, active := p.LoadFirst([]string{filepath.Join(t.TempDir(), "none")})
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
	assert.Empty(t, active)
}

func TestLoadAllReadsEverySource(t *testing.T) {
	p, _ := newTestProcessor(t)
	dir := t.TempDir()

	fast := filepath.Join(dir, "alert_fast.txt")
	writeLines(t, fast, fastLine)
	js := filepath.Join(dir, "alert_json.txt")
	writeLines(t, js, jsonLine, jsonLine)

	alerts, active := p.LoadAll([]string{fast, js, fast})
	assert.Len(t, alerts, 3)
	assert.Len(t, active, 2)
}

func TestClearFilesPartialFailure(t *testing.T) {
	p, m := newTestProcessor(t)
	dir := t.TempDir()

	log1 := filepath.Join(dir, "alert_fast.txt")
	writeLines(t, log1, fastLine, fastLine)

	// a directory cannot be opened for writing, even by root
	log2 := filepath.Join(dir, "alert_json.d")
	require.NoError(t, os.Mkdir(log2, 0o755))

	result := p.ClearFiles([]string{log1, log2})
	assert.Equal(t, 1, result.Cleared)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, log2, result.Errors[0].Path)
	assert.NotEmpty(t, result.Errors[0].Message)

	info, err := os.Stat(log1)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesCleared))
}

func TestClearFilesPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	p, _ := newTestProcessor(t)
	dir := t.TempDir()

	ok := filepath.Join(dir, "a.log")
	writeLines(t, ok, fastLine)
	denied := filepath.Join(dir, "b.log")
	writeLines(t, denied, fastLine)
	require.NoError(t, os.Chmod(denied, 0o444))

	result := p.ClearFiles([]string{ok, denied})
	assert.Equal(t, 1, result.Cleared)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, denied, result.Errors[0].Path)
}

func TestClearDoesNotCreateFiles(t *testing.T) {
	p, _ := newTestProcessor(t)
	dir := t.TempDir()
	existing := filepath.Join(dir, "alert_fast.txt")
	writeLines(t, existing, fastLine)
	missing := filepath.Join(dir, "alert_json.txt")

	result := p.Clear([]string{missing, existing})
	assert.Equal(t, 1, result.Cleared)
	assert.Empty(t, result.Errors)

	_, err := os.Stat(missing)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadFirstKeepsAlertsBeforeReadError(t *testing.T) {
	p, m := newTestProcessor(t)
	dir := t.TempDir()

	broken := filepath.Join(dir, "alert_json.txt")
	writeLines(t, broken, jsonLine)
	fast := filepath.Join(dir, "alert_fast.txt")
	writeLines(t, fast, fastLine)

	// the JSON file fails after two lines
	p.scan = func(path string, fn func(line string) bool) error {
		if path != broken {
			return utils.ScanLines(path, fn)
		}
		fn(jsonLine)
		fn(jsonLine)
		return fmt.Errorf("failed to read %s: %w", path, io.ErrUnexpectedEOF)
	}

	alerts, active := p.LoadFirst([]string{broken, fast})
	require.Len(t, alerts, 2)
	assert.Equal(t, model.FormatJSON, alerts[0].Format)
	assert.Equal(t, []model.ActiveFile{{Name: "alert_json.txt", Path: broken}}, active)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FSErrors.WithLabelValues(metrics.OpRead)))
}

func TestClearSkipsDanglingSymlink(t *testing.T) {
	p, _ := newTestProcessor(t)
	dir := t.TempDir()
	fast := filepath.Join(dir, "alert_fast.txt")
	writeLines(t, fast, fastLine)
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "rotated.1")))

	result := p.Clear([]string{dir})
	assert.Equal(t, 1, result.Cleared)
	assert.Empty(t, result.Errors)
}
