package ports

import "errors"

var (
	ErrNetwork   = errors.New("network error")
	ErrTransport = errors.New("transport error")
	ErrParse     = errors.New("parse error")
	ErrConfig    = errors.New("config error")
)
