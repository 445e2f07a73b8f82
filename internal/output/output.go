package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/codereview/internal/review"
)

// Formats lists the export format names accepted by GetExporter.
var Formats = []string{"github", "markdown", "sarif", "json"}

// Exporter writes a report in a specific format.
type Exporter interface {
	Export(w io.Writer, report *review.Report) error
}

// GetExporter returns an exporter for the specified format.
func GetExporter(format string) (Exporter, error) {
	switch format {
	case "github":
		return &GitHubExporter{}, nil
	case "markdown", "md":
		return &MarkdownExporter{}, nil
	case "sarif":
		return &SARIFExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// Export writes the report to outPath, or to stdout when outPath is empty.
// Missing parent directories of outPath are created.
func Export(report *review.Report, format, outPath string) error {
	exporter, err := GetExporter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		if dir := filepath.Dir(outPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating export directory: %w", err)
			}
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return exporter.Export(w, report)
}

// writeJSON is shared by the JSON based exporters.
func writeJSON(w io.Writer, v any, what string) error {
	data, err := marshalIndent(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", what, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
