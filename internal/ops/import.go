package ops

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hpungsan/moodcal/internal/config"
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/journal"
	"github.com/hpungsan/moodcal/internal/mood"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on collision or bad line (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite on collision
	ImportModeSkip    ImportMode = "skip"    // keep existing on collision
)

const maxImportLine = 1 << 20

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Replaced int           `json:"replaced"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes a line that could not be imported.
type ImportError struct {
	Line    int    `json:"line"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import reads a JSONL export and merges its entries into the journal.
// In error mode any bad line aborts the import with nothing written.
func Import(ctx context.Context, j *journal.Journal, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	var conflict journal.ConflictMode
	switch input.Mode {
	case ImportModeError:
		conflict = journal.ConflictError
	case ImportModeReplace:
		conflict = journal.ConflictReplace
	case ImportModeSkip:
		conflict = journal.ConflictSkip
	default:
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.MoodError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	entries, lineErrs, err := parseExport(ctx, file, j, cfg)
	if err != nil {
		return nil, err
	}

	out := &ImportOutput{Errors: lineErrs}
	if out.Errors == nil {
		out.Errors = []ImportError{}
	}
	if input.Mode == ImportModeError && len(lineErrs) > 0 {
		return out, nil
	}

	res, err := j.Import(ctx, entries, conflict)
	if err != nil {
		return nil, err
	}
	out.Imported = res.Imported
	out.Replaced = res.Replaced
	out.Skipped = res.Skipped
	return out, nil
}

// parseExport reads every line, skipping the header. Invalid lines are
// reported rather than returned as an error.
func parseExport(ctx context.Context, r io.Reader, j *journal.Journal, cfg *config.Config) ([]mood.Entry, []ImportError, error) {
	var entries []mood.Entry
	var lineErrs []ImportError

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	lineNum := 0

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil, nil, errors.NewCancelled("import")
		}
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var probe struct {
			MoodcalExport bool   `json:"_moodcal_export"`
			ID            string `json:"id"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			lineErrs = append(lineErrs, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}
		if probe.MoodcalExport {
			continue
		}

		e, ie := decodeRecord(line, j, cfg)
		if ie != nil {
			ie.Line = lineNum
			ie.ID = probe.ID
			lineErrs = append(lineErrs, *ie)
			continue
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		lineErrs = append(lineErrs, ImportError{
			Line:    lineNum + 1,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return entries, lineErrs, nil
}

func decodeRecord(line []byte, j *journal.Journal, cfg *config.Config) (mood.Entry, *ImportError) {
	var e mood.Entry
	if err := json.Unmarshal(line, &e); err != nil {
		return e, &ImportError{Code: "INVALID_RECORD", Message: err.Error()}
	}
	if e.ID == "" {
		return e, &ImportError{Code: "INVALID_RECORD", Message: "missing id field"}
	}
	if e.CreatedAt.IsZero() {
		return e, &ImportError{Code: "INVALID_RECORD", Message: "missing timestamp field"}
	}
	// date is derived; a stale or hand-edited value is not trusted
	e.CreatedAt = e.CreatedAt.In(j.Location())
	e.Day = mood.StartOfDay(e.CreatedAt, j.Location())

	note, err := ValidateNote(e.Note, cfg)
	if err != nil {
		if mErr, ok := err.(*errors.MoodError); ok {
			return e, &ImportError{Code: string(mErr.Code), Message: mErr.Message}
		}
		return e, &ImportError{Code: "INVALID_RECORD", Message: err.Error()}
	}
	e.Note = note
	return e, nil
}
