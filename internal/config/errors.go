package config

import "errors"

var (
	ErrInvalidConfig     = errors.New("config: invalid configuration")
	ErrFileDoesNotExist  = errors.New("config: file does not exist")
	ErrReadConfigFail    = errors.New("config: failed to read file")
	ErrConfigParsingFail = errors.New("config: failed to parse file")
)
