package parser

import "fjacquet/bankrec/internal/logging"

// BaseParser carries the logger shared by reader implementations.
//
//	type MyReader struct {
//		parser.BaseParser
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a BaseParser. A nil logger is replaced by the default one.
func NewBaseParser(logger logging.Logger) BaseParser {
	return BaseParser{logger: logging.OrDefault(logger)}
}

// SetLogger replaces the logger when l is not nil.
func (b *BaseParser) SetLogger(l logging.Logger) {
	if l != nil {
		b.logger = l
	}
}

// GetLogger returns the reader's logger.
func (b *BaseParser) GetLogger() logging.Logger {
	if b.logger == nil {
		b.logger = logging.OrDefault(nil)
	}
	return b.logger
}
