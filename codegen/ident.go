package codegen

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
)

// Identifier makes label usable as a Go identifier: runes that cannot appear
// in an identifier become '_', and a label starting with a digit gets a '_'
// prefix (3DModel -> _3DModel).
func Identifier(label string) string {
	var b strings.Builder
	for i, r := range label {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	id := b.String()
	if id == "" || token.IsKeyword(id) {
		return "_" + id
	}
	return id
}

// fileName returns a lower-case file name for label, suffixed with a counter
// when an earlier label already claimed the same name. Underscores are
// dropped: the go tool ignores files starting with '_' and treats _test,
// _GOOS and _GOARCH suffixes as build constraints.
func fileName(label string, taken map[string]bool) string {
	base := strings.ToLower(strings.ReplaceAll(Identifier(label), "_", ""))
	if base == "" {
		base = "class"
	}
	name := base + ".go"
	for i := 2; taken[name]; i++ {
		name = base + "_" + strconv.Itoa(i) + ".go"
	}
	taken[name] = true
	return name
}
