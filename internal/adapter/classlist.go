package adapter

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	m "github.com/newobj/dexpack/internal/model"
)

// ClassListReader reads an ordered list of qualified class names from a
// line-oriented source file.
type ClassListReader interface {
	// Read returns the class names in file order. A missing file is not an
	// error; it yields an empty list so the caller falls back to other
	// classification sources.
	Read(path m.Path) ([]string, error)
}

// LocalClassListReader reads class lists from the local filesystem.
type LocalClassListReader struct{}

// NewLocalClassListReader constructs a LocalClassListReader.
func NewLocalClassListReader() *LocalClassListReader {
	return &LocalClassListReader{}
}

// Read loads one class name per line, trimming surrounding whitespace and
// skipping blank lines. The file handle is released on every exit path.
func (r *LocalClassListReader) Read(path m.Path) ([]string, error) {
	file, err := os.Open(string(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("open class list %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	var names []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}

		names = append(names, name)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read class list %s: %w", path, err)
	}

	return names, nil
}
