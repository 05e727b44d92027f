package source

import (
	"os"
	"path/filepath"
	"strings"
)

// IsPseudo reports whether name is an interpreter-internal pseudo filename
// such as <string>, which never resolves to a file on disk.
func IsPseudo(name string) bool {
	return len(name) > 2 && name[0] == '<' && name[len(name)-1] == '>'
}

// SearchFile looks for name under mainDir and then each directory of path.
// Absolute names are only checked for existence.
func SearchFile(name string, path []string, mainDir string) (string, bool) {
	if filepath.IsAbs(name) {
		if readable(name) {
			return name, true
		}
		return "", false
	}
	if mainDir != "" {
		if full := filepath.Join(mainDir, name); readable(full) {
			return full, true
		}
	}
	for _, dir := range path {
		if dir == "" {
			dir = "."
		}
		if full := filepath.Join(dir, name); readable(full) {
			return full, true
		}
	}
	return "", false
}

// Readable reports whether name exists and whether it can be opened for
// reading.
func Readable(name string) (exists, canRead bool) {
	info, err := os.Stat(name)
	if err != nil {
		return false, false
	}
	if info.IsDir() {
		return true, false
	}
	f, err := os.Open(name)
	if err != nil {
		return true, false
	}
	f.Close()
	return true, true
}

func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func readable(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}
