package output

import (
	"io"
	"strings"

	"github.com/dshills/codereview/internal/review"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
)

// SARIFExporter outputs issues in SARIF v2.1.0 format.
type SARIFExporter struct{}

func (s *SARIFExporter) Export(w io.Writer, report *review.Report) error {
	return writeJSON(w, buildSARIF(report), "SARIF")
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func buildSARIF(report *review.Report) sarifLog {
	results := make([]sarifResult, 0, len(report.Review.Issues))
	seen := make(map[review.Severity]bool)

	for _, i := range report.Review.Issues {
		seen[i.Severity] = true
		result := sarifResult{
			RuleID:  ruleID(i.Severity),
			Level:   severityToLevel(i.Severity),
			Message: sarifMessage{Text: i.Description},
		}
		if i.File != "" {
			loc := sarifLocation{PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: i.File},
			}}
			if i.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: i.Line}
			}
			result.Locations = []sarifLocation{loc}
		}
		results = append(results, result)
	}

	// Rules in severity order so the output is stable.
	rules := []sarifRule{}
	for _, sev := range review.Severities {
		if !seen[sev] {
			continue
		}
		rules = append(rules, sarifRule{
			ID:               ruleID(sev),
			Name:             string(sev),
			ShortDescription: sarifMessage{Text: strings.ToUpper(string(sev)[:1]) + string(sev)[1:] + " severity review issue"},
			DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(sev)},
		})
	}

	return sarifLog{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           review.ToolName,
						Version:        report.Version,
						InformationURI: "https://github.com/dshills/codereview",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}

// severityToLevel maps a review severity to a SARIF level.
func severityToLevel(s review.Severity) string {
	switch s {
	case review.SeverityCritical, review.SeverityHigh:
		return "error"
	case review.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func ruleID(s review.Severity) string {
	return review.ToolName + "/" + string(s)
}
