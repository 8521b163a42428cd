package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// OpenText opens path for reading with a leading BOM dropped and invalid UTF-8 replaced by U+FFFD
func OpenText(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &textReader{
		Reader: transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())),
		file:   f,
	}, nil
}

type textReader struct {
	io.Reader
	file *os.File
}

func (r *textReader) Close() error {
	return r.file.Close()
}

// ScanLines calls fn with every line of path, line endings stripped.
// Returning false from fn stops the scan early. Lines have no length limit.
func ScanLines(path string, fn func(line string) bool) error {
	rc, err := OpenText(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	r := bufio.NewReaderSize(rc, 64*1024)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			if !fn(strings.TrimRight(line, "\r\n")) {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
}
