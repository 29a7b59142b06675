package extractor

import (
	"errors"
	"fmt"
)

// ErrCodecFailure reports that a document codec could not parse the input.
var ErrCodecFailure = errors.New("extractor: codec failure")

const (
	CodecPDF  = "pdf"
	CodecXLSX = "xlsx"
	CodecXLS  = "xls"
	CodecCSV  = "csv"
)

// CodecError wraps the underlying codec error for one document.
type CodecError struct {
	Codec string
	Err   error
}

func (e *CodecError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s codec failure", e.Codec)
	}
	return fmt.Sprintf("%s codec failure: %v", e.Codec, e.Err)
}

func (e *CodecError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches ErrCodecFailure.
func (e *CodecError) Is(target error) bool {
	return target == ErrCodecFailure
}

func codecError(codec string, err error) error {
	return &CodecError{Codec: codec, Err: err}
}
