package fetch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// VersionFileName is the record written next to the platform directories.
const VersionFileName = "version.json"

// timestampLayout matches ISO-8601 UTC timestamps with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// VersionRecord describes the installed release.
type VersionRecord struct {
	Version      string `json:"version"`
	DownloadedAt string `json:"downloadedAt"`
}

// NewVersionRecord creates a record for version retrieved at t.
func NewVersionRecord(version string, t time.Time) VersionRecord {
	return VersionRecord{
		Version:      version,
		DownloadedAt: t.UTC().Format(timestampLayout),
	}
}

// Time parses DownloadedAt.
func (r VersionRecord) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, r.DownloadedAt)
}

// WriteVersionRecord writes rec to <binDir>/version.json with two-space
// indentation.
func WriteVersionRecord(binDir string, rec VersionRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal version record: %w", err)
	}

	path := filepath.Join(binDir, VersionFileName)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write version record: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename version record: %w", err)
	}
	return nil
}

// ReadVersionRecord reads <binDir>/version.json. A missing file yields an
// error satisfying errors.Is(err, fs.ErrNotExist).
func ReadVersionRecord(binDir string) (*VersionRecord, error) {
	data, err := os.ReadFile(filepath.Join(binDir, VersionFileName))
	if err != nil {
		return nil, fmt.Errorf("read version record: %w", err)
	}

	var rec VersionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse version record: %w", err)
	}
	return &rec, nil
}
