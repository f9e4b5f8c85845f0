package models

import "strings"

// NormalizeName is the key used for every case-insensitive team-name lookup
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
