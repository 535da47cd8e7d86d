package io

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/williampepple1/redirlookup/internal/config"
)

var (
	// ErrFileNotFound is returned when the input file does not exist or is not a regular file.
	ErrFileNotFound = errors.New("file not found")
	// ErrNoFileName is returned when file input was requested without a file name.
	ErrNoFileName = errors.New("no file name given")
)

// URLReader collects URL candidates from the command line or an input file
type URLReader struct {
	Config *config.IOConfig
}

// NewURLReader creates a new URL reader
func NewURLReader(config *config.IOConfig) *URLReader {
	return &URLReader{
		Config: config,
	}
}

// ReadFromFile returns the whole content of filename.
func (r *URLReader) ReadFromFile(filename string) (string, error) {
	if filename == "" {
		return "", ErrNoFileName
	}

	info, err := os.Stat(filename)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, filename)
	}
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	return string(data), nil
}

// GetURLs returns the candidates to look up. With an input file configured,
// the file content is returned as a single free-text candidate and
// fromFreeText is true; otherwise args are returned as discrete URLs.
func (r *URLReader) GetURLs(args []string) (candidates []string, fromFreeText bool, err error) {
	if r.Config.InputFile != "" {
		text, err := r.ReadFromFile(r.Config.InputFile)
		if err != nil {
			return nil, true, err
		}
		return []string{text}, true, nil
	}

	return args, false, nil
}
