package documents

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// DefaultMaxFiles matches the analysis wizard: one document per run.
	DefaultMaxFiles = 1
	// MaxFilesCap is the hard upper bound used by multi-file surfaces.
	MaxFilesCap = 5
	// DefaultMaxSizeBytes is the per-file size limit (10MB).
	DefaultMaxSizeBytes = 10 << 20
)

// SelectionLimits bounds a file selection before upload.
type SelectionLimits struct {
	MaxFiles     int
	MaxSizeBytes int64
	Extensions   []string
}

// DefaultLimits returns the wizard's selection limits.
func DefaultLimits() SelectionLimits {
	return SelectionLimits{
		MaxFiles:     DefaultMaxFiles,
		MaxSizeBytes: DefaultMaxSizeBytes,
		Extensions:   []string{".pdf", ".doc", ".docx", ".txt"},
	}
}

// ValidateSelection checks a proposed file selection against the limits.
// PDFs are additionally opened to catch corrupt files before wasting an
// upload. The workflow controller assumes this has already been run.
func ValidateSelection(paths []string, limits SelectionLimits) error {
	if len(paths) == 0 {
		return ErrNoFiles
	}
	maxFiles := limits.MaxFiles
	if maxFiles <= 0 || maxFiles > MaxFilesCap {
		maxFiles = MaxFilesCap
	}
	if len(paths) > maxFiles {
		return fmt.Errorf("%w: %d selected, limit %d", ErrTooManyFiles, len(paths), maxFiles)
	}
	maxSize := limits.MaxSizeBytes
	if maxSize <= 0 {
		maxSize = DefaultMaxSizeBytes
	}
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		if !extensionAllowed(ext, limits.Extensions) {
			return fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Size() > maxSize {
			return fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, filepath.Base(path), info.Size())
		}
		if ext == ".pdf" {
			if err := checkPDF(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

func checkPDF(path string) error {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadablePDF, filepath.Base(path), err)
	}
	defer f.Close()
	if reader.NumPage() < 1 {
		return fmt.Errorf("%w: %s has no pages", ErrUnreadablePDF, filepath.Base(path))
	}
	return nil
}
