package artifact

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const commentPrefix = "#"

// ReadFile returns the references listed in the file at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file %s: %w", path, err)
	}
	defer f.Close()

	list, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading input file %s: %w", path, err)
	}
	return list, nil
}

// Read returns one reference per line of r, skipping blank lines and lines
// starting with "#".
func Read(r io.Reader) ([]string, error) {
	list := make([]string, 0)
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		list = append(list, line)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
