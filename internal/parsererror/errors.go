// Package parsererror holds the typed errors returned by the statement readers.
package parsererror

import "fmt"

// ParseError reports a value a reader could not convert.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v", e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError reports input that does not conform to the format a
// reader expects.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
	Err                  error
}

func (e *InvalidFormatError) Error() string {
	source := e.FilePath
	if source == "" {
		source = "<input>"
	}
	msg := fmt.Sprintf("invalid format in '%s': %s. Expected: %s", source, e.Msg, e.ExpectedFormat)
	if e.ActualContentSnippet != "" {
		msg += fmt.Sprintf(". Content snippet: '%s'", e.ActualContentSnippet)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// DataExtractionError reports a required field missing from well-formed input.
type DataExtractionError struct {
	FilePath  string
	FieldName string
	Reason    string
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in '%s' for field '%s': %s", e.FilePath, e.FieldName, e.Reason)
}

// Snippet returns at most n bytes of content for error messages.
func Snippet(content []byte, n int) string {
	if len(content) <= n {
		return string(content)
	}
	return string(content[:n]) + "..."
}
