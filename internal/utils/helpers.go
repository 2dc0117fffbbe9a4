package utils

import "strings"

// IsExported reports whether a package-level name is visible to importers.
// Names starting with an underscore are private.
func IsExported(name string) bool {
	return name != "" && !strings.HasPrefix(name, "_")
}

// IsBlank reports whether name is the blank identifier.
func IsBlank(name string) bool {
	return name == "_"
}

func Pluralize(singular, plural string, count int) string {
	if count == 1 {
		return singular
	}
	return plural
}
