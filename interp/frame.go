package interp

// Frame is one activation record of the running program. Frames belong to
// the host interpreter's call stack; the debugger holds non-owning
// references valid only while the program is suspended.
type Frame interface {
	File() string
	Line() int
	FuncName() string
	Caller() Frame
	Locals() map[string]any
	Globals() map[string]any
	LastOffset() int
	Code() any
}
