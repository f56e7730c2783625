package format

import "strings"

// ShortenPath replaces a leading home directory with ~.
func ShortenPath(path, home string) string {
	if home == "" {
		return path
	}
	home = strings.TrimRight(home, `/\`)
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home) && len(path) > len(home) && (path[len(home)] == '/' || path[len(home)] == '\\') {
		return "~" + path[len(home):]
	}
	return path
}
