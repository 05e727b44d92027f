package interp

type Lang int

const (
	LANG_UNKNOWN Lang = iota
	LANG_MATHICS
	LANG_EXPREDUCE
)
