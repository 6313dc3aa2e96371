package parser

import (
	"testing"

	"fjacquet/bankrec/internal/logging"

	"github.com/stretchr/testify/assert"
)

func TestBaseParser_Logger(t *testing.T) {
	b := NewBaseParser(nil)
	assert.NotNil(t, b.GetLogger())

	mock := logging.NewMockLogger()
	b.SetLogger(mock)
	assert.Same(t, mock, b.GetLogger())

	b.SetLogger(nil)
	assert.Same(t, mock, b.GetLogger())

	var zero BaseParser
	assert.NotNil(t, zero.GetLogger())
}
