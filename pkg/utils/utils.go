// Package utils holds small helpers shared by the loader and the CLI.
package utils

// PickFirstNonEmpty picks the first non-empty value from a list of strings.
// If all values are empty, returns the empty string.
func PickFirstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
