package interp

import "errors"

var (
	ErrLangUnsupported  = errors.New("language unsupported")
	ErrTraceUnsupported = errors.New("trace unsupported")
	ErrEvalUnsupported  = errors.New("eval unsupported")
)
