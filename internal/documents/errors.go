package documents

import "errors"

var (
	ErrNoFiles        = errors.New("no files selected")
	ErrTooManyFiles   = errors.New("too many files selected")
	ErrFileTooLarge   = errors.New("file exceeds the maximum size")
	ErrUnsupportedExt = errors.New("unsupported file type")
	ErrUnreadablePDF  = errors.New("pdf could not be read")
)
