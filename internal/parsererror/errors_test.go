package parsererror

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	err := &ParseError{Parser: "ofx", Field: "amount", Value: "x", Err: io.ErrUnexpectedEOF}
	assert.Equal(t, "ofx: failed to parse amount='x': unexpected EOF", err.Error())
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestInvalidFormatError(t *testing.T) {
	err := &InvalidFormatError{ExpectedFormat: "OFX", Msg: "no statement", ActualContentSnippet: "<html>"}
	assert.Equal(t, "invalid format in '<input>': no statement. Expected: OFX. Content snippet: '<html>'", err.Error())

	wrapped := &InvalidFormatError{FilePath: "a.xml", ExpectedFormat: "CAMT.053", Msg: "bad xml", Err: io.EOF}
	assert.Contains(t, wrapped.Error(), "a.xml")
	assert.True(t, errors.Is(wrapped, io.EOF))

	var target *InvalidFormatError
	assert.True(t, errors.As(error(wrapped), &target))
}

func TestDataExtractionError(t *testing.T) {
	err := &DataExtractionError{FilePath: "s.ofx", FieldName: "account", Reason: "missing"}
	assert.Equal(t, "data extraction failed in 's.ofx' for field 'account': missing", err.Error())
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", Snippet([]byte("abc"), 5))
	assert.Equal(t, "ab...", Snippet([]byte("abcdef"), 2))
}
