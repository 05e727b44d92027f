package source

import (
	"regexp"
	"sync"
)

// Map tracks how pseudo or generated filenames relate to real source. File
// remaps are exact-name entries, pattern remaps rewrite by regexp, and text
// entries back a pseudo file (such as an eval string) with literal source.
type Map struct {
	mu       sync.RWMutex
	files    map[string]string
	texts    map[string]string
	patterns []patternRemap
}

type patternRemap struct {
	re      *regexp.Regexp
	replace string
}

func NewMap() *Map {
	return &Map{
		files: make(map[string]string),
		texts: make(map[string]string),
	}
}

func (m *Map) Remap(from, to string) {
	m.mu.Lock()
	m.files[from] = to
	m.mu.Unlock()
}

func (m *Map) RemoveRemap(from string) {
	m.mu.Lock()
	delete(m.files, from)
	m.mu.Unlock()
}

func (m *Map) AddPattern(pattern, replace string, clearPrev bool) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if clearPrev {
		m.patterns = m.patterns[:0]
		m.files = make(map[string]string)
	}
	m.patterns = append(m.patterns, patternRemap{re: re, replace: replace})
	m.mu.Unlock()
	return nil
}

func (m *Map) RemapText(name, text string) {
	m.mu.Lock()
	m.texts[name] = text
	m.mu.Unlock()
}

func (m *Map) Text(name string) (string, bool) {
	m.mu.RLock()
	text, ok := m.texts[name]
	m.mu.RUnlock()
	return text, ok
}

func (m *Map) Mapped(name string) (string, bool) {
	m.mu.RLock()
	to, ok := m.files[name]
	m.mu.RUnlock()
	return to, ok
}

// Resolve returns the backing filename for name, following one exact remap
// or the first matching pattern. Names with no entry come back unchanged.
func (m *Map) Resolve(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if to, ok := m.files[name]; ok {
		return to
	}
	for _, p := range m.patterns {
		if p.re.MatchString(name) {
			return p.re.ReplaceAllString(name, p.replace)
		}
	}
	return name
}
