package ops

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/moodcal/internal/calendar"
	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/journal"
	"github.com/hpungsan/moodcal/internal/mood"
)

// ExportSchemaVersion is written to every export header.
const ExportSchemaVersion = "1.0"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path  string // optional, default: ~/.moodcal/exports/moodcal-<month|all>-<timestamp>.jsonl
	Month string // optional YYYY-MM filter
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	ExportID   string `json:"export_id"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the first line of a JSONL export file.
type ExportHeader struct {
	MoodcalExport bool   `json:"_moodcal_export"`
	SchemaVersion string `json:"schema_version"`
	ExportID      string `json:"export_id"`
	ExportedAt    int64  `json:"exported_at"`
}

// Export writes entries to a JSONL file: a header line, then one entry per
// line in collection order. The file is written to a temp name and renamed
// into place, so an existing file survives a failed export.
func Export(ctx context.Context, j *journal.Journal, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := Now()
	exportedAt := now.Unix()

	j.Refresh(ctx)
	var entries []mood.Entry
	scope := "all"
	if input.Month != "" {
		m, err := resolveMonth(input.Month, j)
		if err != nil {
			return nil, err
		}
		scope = calendar.MonthKey(m)
		entries = j.EntriesForMonth(m)
	} else {
		entries = j.Entries()
	}

	exportPath := input.Path
	if exportPath == "" {
		dir, err := DefaultExportsDir()
		if err != nil {
			return nil, err
		}
		exportPath = filepath.Join(dir, fmt.Sprintf("moodcal-%s-%s.jsonl", scope, now.Format("2006-01-02T150405")))
	}

	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	exportID := ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0)).String()
	header := ExportHeader{
		MoodcalExport: true,
		SchemaVersion: ExportSchemaVersion,
		ExportID:      exportID,
		ExportedAt:    exportedAt,
	}
	if err := writeJSONLine(file, header); err != nil {
		return nil, err
	}

	for _, e := range entries {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("export")
		default:
		}
		if err := writeJSONLine(file, e); err != nil {
			return nil, err
		}
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink at the destination.
	if isSymlink(exportPath) {
		return nil, errors.NewInvalidRequest("export path is a symlink")
	}

	// On Windows, os.Rename fails if the destination exists; the existing file is kept.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		ExportID:   exportID,
		Count:      len(entries),
		ExportedAt: exportedAt,
	}, nil
}

func writeJSONLine(f *os.File, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(err)
	}
	b = append(b, '\n')
	if _, err := f.Write(b); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

