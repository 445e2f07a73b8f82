package output

import (
	"encoding/json"
	"io"

	"github.com/dshills/codereview/internal/review"
)

// JSONExporter outputs the full report as JSON.
type JSONExporter struct{}

func (j *JSONExporter) Export(w io.Writer, report *review.Report) error {
	return writeJSON(w, report, "JSON")
}

func marshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
