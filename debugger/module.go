package debugger

// ModuleManager tracks the definition files the traced program has read
// through Get, in first-load order. Paths are canonicalized.
type ModuleManager interface {
	LoadedFiles() []string
	FileLoaded(name string) bool
}
