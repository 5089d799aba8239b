package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/hyperifyio/vaultclip/internal/note"
)

// ConfigurationError reports settings that make a run impossible. It is
// raised before any network call.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ExtractionError reports a failure to download or parse the article.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// FormattingError reports a failed model call.
type FormattingError struct {
	Err error
}

func (e *FormattingError) Error() string { return "format: " + e.Err.Error() }

func (e *FormattingError) Unwrap() error { return e.Err }

// ValidationError wraps a note.StructureError raised on the model output.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "validate: " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// WriteError reports a filesystem failure while saving the note.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Describe maps err to the one-line headline shown to the user.
func Describe(err error) string {
	var (
		cfgErr   *ConfigurationError
		extErr   *ExtractionError
		fmtErr   *FormattingError
		valErr   *ValidationError
		strErr   *note.StructureError
		writeErr *WriteError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		return "Configuration error."
	case errors.As(err, &extErr):
		return "Failed to download or parse the article."
	case errors.As(err, &fmtErr):
		return "The model call failed."
	case errors.As(err, &valErr), errors.As(err, &strErr):
		return "The model output is not a valid note; nothing was saved."
	case errors.As(err, &writeErr):
		return "Failed to save the note."
	default:
		return "Unexpected error."
	}
}

// Report prints the headline for err followed by its cause.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintln(w, cfgErr.Msg)
		if cfgErr.Err != nil {
			fmt.Fprintf(w, "Error: %v\n", cause(cfgErr))
		}
		return
	}
	fmt.Fprintln(w, Describe(err))
	fmt.Fprintf(w, "Error: %v\n", cause(err))
}

// cause returns the error a stage error wraps, one level down, so that the
// path or URL context added by the failing call stays in the message. Errors
// that carry no stage are returned as they are.
func cause(err error) error {
	var (
		cfgErr   *ConfigurationError
		extErr   *ExtractionError
		fmtErr   *FormattingError
		valErr   *ValidationError
		writeErr *WriteError
	)
	var inner error
	switch {
	case errors.As(err, &cfgErr):
		inner = cfgErr.Err
	case errors.As(err, &extErr):
		inner = extErr.Err
	case errors.As(err, &fmtErr):
		inner = fmtErr.Err
	case errors.As(err, &valErr):
		inner = valErr.Err
	case errors.As(err, &writeErr):
		inner = writeErr.Err
	}
	if inner == nil {
		return err
	}
	return inner
}
