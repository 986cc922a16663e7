package workflow

import "errors"

var (
	ErrNoFilesSelected = errors.New("no files selected")
)
