package common

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// settingsSchema constrains the optional JSON settings file. Unknown keys are
// rejected so a typo'd threshold fails loudly instead of silently defaulting.
const settingsSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "pod_folder":               {"type": "string"},
    "manifest_path":            {"type": "string"},
    "output_folder":            {"type": "string"},
    "archive_folder":           {"type": "string"},
    "extensions":               {"type": "array", "items": {"type": "string", "minLength": 1}},
    "columns":                  {"type": "object", "additionalProperties": {"type": "string", "minLength": 1}},
    "date_tolerance_days":      {"type": "integer", "minimum": 0},
    "customer_match_threshold": {"type": "integer", "minimum": 0, "maximum": 100},
    "use_ocr":                  {"type": "boolean"},
    "extract_timeout_seconds":  {"type": "integer", "minimum": 1},
    "history_db":               {"type": "string"}
  }
}`

type settingsFile struct {
	PODFolder              *string           `json:"pod_folder"`
	ManifestPath           *string           `json:"manifest_path"`
	OutputFolder           *string           `json:"output_folder"`
	ArchiveFolder          *string           `json:"archive_folder"`
	Extensions             []string          `json:"extensions"`
	Columns                map[string]string `json:"columns"`
	DateToleranceDays      *int              `json:"date_tolerance_days"`
	CustomerMatchThreshold *int              `json:"customer_match_threshold"`
	UseOCR                 *bool             `json:"use_ocr"`
	ExtractTimeoutSeconds  *int              `json:"extract_timeout_seconds"`
	HistoryDB              *string           `json:"history_db"`
}

// ApplySettingsFile overlays values from a JSON settings file onto cfg.
// The file is validated against settingsSchema before anything is applied,
// so a malformed file leaves cfg untouched.
func ApplySettingsFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return NewAppError("SETTINGS_ERROR", "read settings file", err)
	}

	schema, err := jsonschema.CompileString("settings.json", settingsSchema)
	if err != nil {
		return NewAppError("SETTINGS_ERROR", "compile settings schema", err)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return NewAppError("SETTINGS_ERROR", "parse settings file", err)
	}
	if err := schema.Validate(doc); err != nil {
		return NewAppError("SETTINGS_ERROR", "invalid settings file", err)
	}

	var s settingsFile
	if err := json.Unmarshal(raw, &s); err != nil {
		return NewAppError("SETTINGS_ERROR", "decode settings file", err)
	}

	if s.PODFolder != nil {
		cfg.Paths.PODFolder = *s.PODFolder
	}
	if s.ManifestPath != nil {
		cfg.Paths.ManifestPath = *s.ManifestPath
	}
	if s.OutputFolder != nil {
		cfg.Paths.OutputFolder = *s.OutputFolder
	}
	if s.ArchiveFolder != nil {
		cfg.Paths.ArchiveFolder = *s.ArchiveFolder
	}
	if len(s.Extensions) > 0 {
		cfg.Manifest.Extensions = s.Extensions
	}
	if len(s.Columns) > 0 {
		// Overlay per key so a partial map keeps the defaults for the rest.
		cols := make(map[string]string, len(cfg.Manifest.Columns))
		for k, v := range cfg.Manifest.Columns {
			cols[k] = v
		}
		for k, v := range s.Columns {
			cols[k] = v
		}
		cfg.Manifest.Columns = cols
	}
	if s.DateToleranceDays != nil {
		cfg.Matching.DateToleranceDays = *s.DateToleranceDays
	}
	if s.CustomerMatchThreshold != nil {
		cfg.Matching.CustomerMatchThreshold = *s.CustomerMatchThreshold
	}
	if s.UseOCR != nil {
		cfg.OCR.UseOCR = *s.UseOCR
	}
	if s.ExtractTimeoutSeconds != nil {
		cfg.OCR.ExtractTimeout = time.Duration(*s.ExtractTimeoutSeconds) * time.Second
	}
	if s.HistoryDB != nil {
		cfg.Store.DBPath = *s.HistoryDB
	}
	return nil
}
