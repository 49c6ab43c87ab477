package songs

import (
	"errors"
	"fmt"
)

// ErrStorage marks failures reading or writing persisted songs. Details stay
// in the logs; callers only learn that storage failed.
var ErrStorage = errors.New("song storage failure")

// Upload rejections that do not depend on file content.
var (
	ErrNoFile       = &InputError{Message: "No file uploaded. Please upload a CSV file."}
	ErrFileType     = &InputError{Message: "Invalid file type. Only CSV files are allowed."}
	ErrFileTooLarge = &InputError{Message: "File size exceeds 10MB limit."}
)

// InputError is a client-caused rejection. Message is safe to show to the
// uploader; Row is the spreadsheet line for record-level problems.
type InputError struct {
	Message string
	Row     int
	Err     error
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func rejected(message string, err error) *InputError {
	return &InputError{Message: message, Err: err}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
