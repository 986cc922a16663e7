package documents

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestValidateSelectionEmpty(t *testing.T) {
	if err := ValidateSelection(nil, DefaultLimits()); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestValidateSelectionTooMany(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.txt", 10),
		writeFile(t, dir, "b.txt", 10),
	}
	err := ValidateSelection(paths, DefaultLimits())
	if !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("expected ErrTooManyFiles, got %v", err)
	}
}

func TestValidateSelectionCapAppliesWhenLimitUnset(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt"} {
		paths = append(paths, writeFile(t, dir, name, 1))
	}
	limits := SelectionLimits{Extensions: []string{".txt"}}
	if err := ValidateSelection(paths[:5], limits); err != nil {
		t.Fatalf("five files should pass: %v", err)
	}
	if err := ValidateSelection(paths, limits); !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("expected ErrTooManyFiles for six files, got %v", err)
	}
}

func TestValidateSelectionRejectsExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "image.png", 10)
	err := ValidateSelection([]string{path}, DefaultLimits())
	if !errors.Is(err, ErrUnsupportedExt) {
		t.Fatalf("expected ErrUnsupportedExt, got %v", err)
	}
}

func TestValidateSelectionRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.txt", 101)
	limits := DefaultLimits()
	limits.MaxSizeBytes = 100
	err := ValidateSelection([]string{path}, limits)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestValidateSelectionRejectsCorruptPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := ValidateSelection([]string{path}, DefaultLimits())
	if !errors.Is(err, ErrUnreadablePDF) {
		t.Fatalf("expected ErrUnreadablePDF, got %v", err)
	}
}

func TestRouteAndEvidenceValidation(t *testing.T) {
	if !RouteVisualArt.Valid() || !RouteCombinedArt.Valid() {
		t.Fatalf("expected known routes to be valid")
	}
	if Route("sculpture").Valid() {
		t.Fatalf("unexpected valid route")
	}
	if !EvidenceCV.Valid() || !EvidenceAwards.Valid() {
		t.Fatalf("expected known evidence types to be valid")
	}
	if EvidenceType("diary").Valid() {
		t.Fatalf("unexpected valid evidence type")
	}
}
