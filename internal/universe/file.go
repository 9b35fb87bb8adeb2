package universe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileSource reads whitespace-delimited tickers. Text after # is ignored.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed symbol source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Symbols reads the file on every call
func (s *FileSource) Symbols(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, configError("file", fmt.Errorf("open symbols file: %w", err))
	}
	defer f.Close()

	symbols, err := ParseSymbols(f)
	if err != nil {
		return nil, configError("file", fmt.Errorf("read %s: %w", s.path, err))
	}
	if len(symbols) == 0 {
		return nil, configError("file", fmt.Errorf("%s contains no symbols", s.path))
	}
	return symbols, nil
}

// Close is a no-op
func (s *FileSource) Close() {}

// ParseSymbols splits r on whitespace, skipping # comments
func ParseSymbols(r io.Reader) ([]string, error) {
	var symbols []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		symbols = append(symbols, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return symbols, nil
}
