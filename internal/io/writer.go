package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/williampepple1/redirlookup/internal/config"
	"github.com/williampepple1/redirlookup/pkg/models"
)

// ResultWriter writes the result set as a JSON array
type ResultWriter struct {
	Config *config.IOConfig
	Stdout io.Writer
}

// NewResultWriter creates a new result writer printing to stdout unless an
// output file is configured
func NewResultWriter(config *config.IOConfig, stdout io.Writer) *ResultWriter {
	return &ResultWriter{
		Config: config,
		Stdout: stdout,
	}
}

// Write writes results to the configured output file, or to Stdout when
// no output file is set.
func (w *ResultWriter) Write(results []models.Result) error {
	if w.Config.OutputFile == "" {
		return w.Encode(w.Stdout, results)
	}
	return w.SaveToFile(results)
}

// SaveToFile saves the results to the configured output file
func (w *ResultWriter) SaveToFile(results []models.Result) error {
	f, err := os.Create(w.Config.OutputFile)
	if err != nil {
		return err
	}
	if err := w.Encode(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes results to out as indented JSON. URLs are written verbatim,
// without HTML escaping of characters such as &.
func (w *ResultWriter) Encode(out io.Writer, results []models.Result) error {
	if results == nil {
		results = []models.Result{}
	}
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", w.Config.Indent)
	return enc.Encode(results)
}
