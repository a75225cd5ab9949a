package ops

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/errors"
	"github.com/hpungsan/indotrip/internal/render"
	"github.com/hpungsan/indotrip/internal/store"
)

// ExportItineraryInput contains parameters for the ExportItinerary operation.
type ExportItineraryInput struct {
	TripID string
	Format string // md (default) or html

	// Path writes the document to this file. It must sit directly in the
	// exports directory or an allowed_paths entry.
	Path string

	// WriteFile writes to a generated name in the exports directory when Path is empty.
	WriteFile bool
}

// ExportItineraryOutput contains the result of the ExportItinerary operation.
// Content is set when nothing was written to disk.
type ExportItineraryOutput struct {
	TripID     string        `json:"trip_id"`
	Format     render.Format `json:"format"`
	Content    string        `json:"content,omitempty"`
	Path       string        `json:"path,omitempty"`
	Bytes      int           `json:"bytes"`
	ExportedAt int64         `json:"exported_at"`
}

// ExportItinerary renders the trip's current itinerary and optionally writes it to a file.
func ExportItinerary(ctx context.Context, st *store.Store, cfg *config.Config, input ExportItineraryInput) (*ExportItineraryOutput, error) {
	id, err := normalizeTripID(input.TripID)
	if err != nil {
		return nil, err
	}
	format, ok := render.ParseFormat(input.Format)
	if !ok {
		return nil, errors.NewInvalidRequest("format must be one of: md, html")
	}

	t, err := st.Snapshot(id)
	if err != nil {
		return nil, err
	}
	if t.Itinerary == nil {
		return nil, errors.NewNotFound("itinerary", id)
	}

	doc, err := render.Render(format, t.Name, t.Itinerary)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now()
	out := &ExportItineraryOutput{
		TripID:     id,
		Format:     format,
		Bytes:      len(doc),
		ExportedAt: now.Unix(),
	}

	path := input.Path
	if path == "" && !input.WriteFile {
		out.Content = string(doc)
		return out, nil
	}
	if path == "" {
		dir, err := exportsDir(cfg)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("%s-%s-%s%s", SanitizeForFilename(t.Name), id, now.Format("2006-01-02T150405"), format.Extension())
		path = filepath.Join(dir, name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateExportPath(path, format.Extension(), cfg); err != nil {
		return nil, err
	}
	if err := writeFileAtomic(path, doc); err != nil {
		return nil, err
	}

	out.Path = path
	return out, nil
}

// writeFileAtomic writes data to a temp file beside path and renames it into
// place, so an existing file is never left half-written.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
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

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink at the destination.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("path must not be a symlink")
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}
