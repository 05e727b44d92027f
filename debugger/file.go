package debugger

// FileManager resolves the file names the interpreter reports into canonic
// paths. Canonic names are what breakpoints and the location printer key on,
// so every name coming off an event goes through here exactly once.
type FileManager interface {
	Canonic(file string) string
	AddSearchPath(dirs ...string)
	SearchPath() []string
}
