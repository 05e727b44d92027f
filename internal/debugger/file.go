package debugger

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/wnxd/symdbg/source"
)

const fileCacheSize = 256

type fileManager struct {
	dbg     Debugger
	mainDir string
	mu      sync.RWMutex
	path    []string
	fncache *lru.Cache
	txcache *lru.Cache
}

func (fm *fileManager) ctor(dbg Debugger, mainFile string, path []string) {
	fm.dbg = dbg
	if mainFile != "" && !source.IsPseudo(mainFile) {
		fm.mainDir = filepath.Dir(mainFile)
	}
	for _, dir := range path {
		if dir != "" && !slices.Contains(fm.path, dir) {
			fm.path = append(fm.path, dir)
		}
	}
	fm.fncache, _ = lru.New(fileCacheSize)
	fm.txcache, _ = lru.New(fileCacheSize)
}

func (fm *fileManager) dtor() {
	if fm.fncache != nil {
		fm.fncache.Purge()
	}
	if fm.txcache != nil {
		fm.txcache.Purge()
	}
	fm.path = nil
}

// Canonic resolves an interpreter-reported file name to the absolute,
// symlink-free form breakpoints key on. Pseudo names like <stdin> pass
// through untouched. The resolution is cached per raw name; the source map
// is consulted after the cache so remaps take effect immediately.
func (fm *fileManager) Canonic(file string) string {
	if file == "" || source.IsPseudo(file) {
		return file
	}
	if cached, ok := fm.fncache.Get(file); ok {
		return fm.remap(cached.(string))
	}
	name := source.ExpandUser(file)
	switch firstComponent(name) {
	case ".", "..":
		name = filepath.Join(fm.mainDir, name)
	default:
		if !filepath.IsAbs(name) {
			if found, ok := source.SearchFile(name, fm.SearchPath(), fm.mainDir); ok {
				name = found
			}
		}
	}
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	if resolved, err := filepath.EvalSymlinks(name); err == nil {
		name = resolved
	}
	name = filepath.Clean(name)
	fm.fncache.Add(file, name)
	return fm.remap(name)
}

func (fm *fileManager) AddSearchPath(dirs ...string) {
	fm.mu.Lock()
	for _, dir := range dirs {
		if dir != "" && !slices.Contains(fm.path, dir) {
			fm.path = append(fm.path, dir)
		}
	}
	fm.mu.Unlock()
}

func (fm *fileManager) SearchPath() []string {
	fm.mu.RLock()
	defer fm.mu.RUnlock()
	return slices.Clone(fm.path)
}

func (fm *fileManager) remap(name string) string {
	return fm.dbg.SourceMap().Resolve(name)
}

// lines returns the source text of name split into lines. Text registered on
// the source map wins over the file on disk, which lets pseudo files like
// <string> show the expression they hold.
func (fm *fileManager) lines(name string) ([]string, bool) {
	if text, ok := fm.dbg.SourceMap().Text(name); ok {
		return strings.Split(text, "\n"), true
	}
	if source.IsPseudo(name) {
		return nil, false
	}
	if cached, ok := fm.txcache.Get(name); ok {
		return cached.([]string), true
	}
	data, err := os.ReadFile(fm.Canonic(name))
	if err != nil {
		return nil, false
	}
	lines := strings.Split(string(data), "\n")
	fm.txcache.Add(name, lines)
	return lines, true
}

// lineAt returns the 1-based line lineno of name's source text.
func (fm *fileManager) lineAt(name string, lineno int) (string, bool) {
	lines, ok := fm.lines(name)
	if !ok || lineno < 1 || lineno > len(lines) {
		return "", false
	}
	return lines[lineno-1], true
}

func firstComponent(name string) string {
	for i := 0; i < len(name); i++ {
		if os.IsPathSeparator(name[i]) {
			return name[:i]
		}
	}
	return name
}
