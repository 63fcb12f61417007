package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"convlint/internal/diag"
	"convlint/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool               sarifTool              `json:"tool"`
	AutomationDetails  sarifAutomation        `json:"automationDetails"`
	Invocations        []sarifInvocation      `json:"invocations,omitempty"`
	Results            []sarifResult          `json:"results"`
	ColumnKind         string                 `json:"columnKind"`
	OriginalURIBaseIDs map[string]sarifURIRef `json:"originalUriBaseIds,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name,omitempty"`
	ShortDescription     sarifText         `json:"shortDescription"`
	FullDescription      *sarifText        `json:"fullDescription,omitempty"`
	DefaultConfiguration sarifRuleConfig   `json:"defaultConfiguration"`
	Properties           map[string]string `json:"properties,omitempty"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifAutomation struct {
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifURIRef struct {
	URI string `json:"uri"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        *int            `json:"ruleIndex,omitempty"`
	Level            string          `json:"level"`
	Message          sarifText       `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               *int                  `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifText            `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0).
// Колонки байтовые; для ASCII-исходников они совпадают с unicodeCodePoints.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	return SarifWithID(w, bag, fs, meta, uuid.New())
}

// SarifWithID is Sarif with a fixed run GUID.
func SarifWithID(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta, runID uuid.UUID) error {
	name := meta.ToolName
	if name == "" {
		name = "convlint"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           name,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
		}},
		AutomationDetails: sarifAutomation{GUID: runID.String()},
		Results:           make([]sarifResult, 0, bag.Len()),
		ColumnKind:        "unicodeCodePoints",
	}
	if meta.PathMode == PathModeRelative && fs.BaseDir() != "" {
		run.OriginalURIBaseIDs = map[string]sarifURIRef{
			"SRCROOT": {URI: "file://" + fs.BaseDir() + "/"},
		}
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           append([]string(nil), meta.InvocationArgs...),
			ExecutionSuccessful: !bag.HasErrors(),
		}}
	}

	ruleIndex := make(map[diag.Code]int, len(meta.Rules))
	for _, r := range meta.Rules {
		if _, dup := ruleIndex[r.Code]; dup {
			continue
		}
		rule := sarifRule{
			ID:                   r.ID(),
			Name:                 r.Title,
			ShortDescription:     sarifText{Text: r.Title},
			DefaultConfiguration: sarifRuleConfig{Level: sarifLevel(r.Severity)},
			Properties:           map[string]string{"category": r.Category()},
		}
		if r.Description != "" {
			rule.FullDescription = &sarifText{Text: r.Description}
		}
		ruleIndex[r.Code] = len(run.Tool.Driver.Rules)
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, rule)
	}

	for _, d := range bag.Items() {
		res := sarifResult{
			RuleID:    d.Code.ID(),
			Level:     sarifLevel(d.Severity),
			Message:   sarifText{Text: d.Message},
			Locations: make([]sarifLocation, 0, 1),
		}
		if idx, ok := ruleIndex[d.Code]; ok {
			res.RuleIndex = &idx
		}
		if loc, ok := sarifLocate(fs, d.Primary, meta.PathMode); ok {
			res.Locations = append(res.Locations, loc)
		}
		for i, note := range d.Notes {
			loc, ok := sarifLocate(fs, note.Span, meta.PathMode)
			if !ok {
				continue
			}
			id := i + 1
			loc.ID = &id
			loc.Message = &sarifText{Text: note.Msg}
			res.RelatedLocations = append(res.RelatedLocations, loc)
		}
		run.Results = append(run.Results, res)
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func sarifLocate(fs *source.FileSet, sp source.Span, mode PathMode) (sarifLocation, bool) {
	f := fs.Get(sp.File)
	if f == nil {
		return sarifLocation{}, false
	}
	start, end := fs.Resolve(sp)
	art := sarifArtifact{URI: displayPath(f, fs, mode)}
	if mode == PathModeRelative && fs.BaseDir() != "" {
		art.URIBaseID = "SRCROOT"
	}
	return sarifLocation{PhysicalLocation: sarifPhysicalLocation{
		ArtifactLocation: art,
		Region: sarifRegion{
			StartLine:   start.Line,
			StartColumn: start.Col,
			EndLine:     end.Line,
			EndColumn:   end.Col,
			ByteOffset:  sp.Start,
			ByteLength:  sp.Len(),
		},
	}}, true
}
