package settings

import (
	"strings"

	"github.com/google/go-cmp/cmp"
)

// DiffSerialized returns a diff between two serialized preference
// payloads, empty when they match. Used to decide whether a reload needs
// a layout transition.
func DiffSerialized(previous, current []byte) string {
	return cmp.Diff(splitLines(previous), splitLines(current))
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
