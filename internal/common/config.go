package common

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Paths    PathsConfig
	Manifest ManifestConfig
	Matching MatchingConfig
	OCR      OCRConfig
	Store    StoreConfig
}

// PathsConfig holds the folder layout for a run
type PathsConfig struct {
	PODFolder     string
	ManifestPath  string
	OutputFolder  string
	ArchiveFolder string
}

// ManifestConfig maps canonical manifest fields to the spreadsheet's actual
// column headers. Keys are the canonical names: invoice_number, delivery_id,
// date, customer, status.
type ManifestConfig struct {
	Columns    map[string]string
	Extensions []string
}

// MatchingConfig holds the reconciliation tolerances
type MatchingConfig struct {
	DateToleranceDays      int
	CustomerMatchThreshold int
}

// OCRConfig holds text-extraction configuration
type OCRConfig struct {
	Pdftotext      string
	Pdftoppm       string
	Tesseract      string
	DPI            int
	MaxPages       int
	UseOCR         bool
	ExtractTimeout time.Duration
}

// StoreConfig holds run-history database configuration
type StoreConfig struct {
	// DBPath is the SQLite file for run history; empty disables recording.
	DBPath string
}

// DefaultColumns is the manifest column mapping used when none is configured.
var DefaultColumns = map[string]string{
	"invoice_number": "Invoice Number",
	"delivery_id":    "Delivery ID",
	"date":           "Delivery Date",
	"customer":       "Customer Name",
	"status":         "Status",
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			PODFolder:     getEnv("POD_FOLDER", ""),
			ManifestPath:  getEnv("POD_MANIFEST", ""),
			OutputFolder:  getEnv("POD_OUTPUT", "./reports"),
			ArchiveFolder: getEnv("POD_ARCHIVE", "./archive"),
		},
		Manifest: ManifestConfig{
			Columns:    DefaultColumns,
			Extensions: []string{"pdf"},
		},
		Matching: MatchingConfig{
			DateToleranceDays:      getEnvAsInt("POD_DATE_TOLERANCE_DAYS", 2),
			CustomerMatchThreshold: getEnvAsInt("POD_CUSTOMER_THRESHOLD", 80),
		},
		OCR: OCRConfig{
			Pdftotext:      getEnv("PDFTOTEXT", "pdftotext"),
			Pdftoppm:       getEnv("PDFTOPPM", "pdftoppm"),
			Tesseract:      getEnv("TESSERACT", "tesseract"),
			DPI:            getEnvAsInt("OCR_DPI", 300),
			MaxPages:       getEnvAsInt("OCR_MAX_PAGES", 0),
			UseOCR:         getEnvAsBool("POD_USE_OCR", true),
			ExtractTimeout: getEnvAsDuration("POD_EXTRACT_TIMEOUT", 60*time.Second),
		},
		Store: StoreConfig{
			DBPath: getEnv("POD_HISTORY_DB", ""),
		},
	}
}

// OutputPath returns a timestamped file path under the output folder.
func (c *Config) OutputPath(prefix, ext string) string {
	ts := time.Now().Format("20060102_150405")
	return filepath.Join(c.Paths.OutputFolder, prefix+"_"+ts+"."+ext)
}

// Validate checks that the input paths required for processing exist.
// Output folders are created on demand, not validated here.
func (c *Config) Validate() error {
	if c.Paths.PODFolder == "" {
		return NewAppError("CONFIG_ERROR", "POD folder is required", ErrInvalidInput)
	}
	if st, err := os.Stat(c.Paths.PODFolder); err != nil || !st.IsDir() {
		return NewAppError("CONFIG_ERROR", "POD folder not found: "+c.Paths.PODFolder, ErrInvalidInput)
	}
	if c.Paths.ManifestPath == "" {
		return NewAppError("CONFIG_ERROR", "manifest path is required", ErrInvalidInput)
	}
	if _, err := os.Stat(c.Paths.ManifestPath); err != nil {
		return NewAppError("CONFIG_ERROR", "manifest file not found: "+c.Paths.ManifestPath, ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
