package debugger

import (
	"slices"
	"sync"
)

// moduleManager records definition files as Get events load them.
type moduleManager struct {
	mu    sync.Mutex
	files []string
}

func (mm *moduleManager) ctor() {
}

func (mm *moduleManager) dtor() {
	mm.files = nil
}

// addFile records name once, keeping first-load order.
func (mm *moduleManager) addFile(name string) {
	mm.mu.Lock()
	if !slices.Contains(mm.files, name) {
		mm.files = append(mm.files, name)
	}
	mm.mu.Unlock()
}

func (mm *moduleManager) LoadedFiles() []string {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return slices.Clone(mm.files)
}

func (mm *moduleManager) FileLoaded(name string) bool {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return slices.Contains(mm.files, name)
}
