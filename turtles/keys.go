package turtles

import "strings"

type KeyPhase string

const (
	KeyDown KeyPhase = "keydown"
	KeyUp   KeyPhase = "keyup"
)

var keyNames = map[string]string{
	"arrowup":    "up",
	"arrowdown":  "down",
	"arrowleft":  "left",
	"arrowright": "right",
	" ":          "space",
	"spacebar":   "space",
	"esc":        "escape",
	"enter":      "return",
}

// NormalizeKey maps browser and tk style key names to one canonical,
// lower-case spelling.
func NormalizeKey(key string) string {
	if key == "" {
		return ""
	}
	lower := strings.ToLower(key)
	if name, ok := keyNames[lower]; ok {
		return name
	}
	return lower
}
