package xlsx

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	invalidSheetChars = regexp.MustCompile(`[\\/*?:\[\]]`)
	spaces            = regexp.MustCompile(`\s+`)
)

// MaxSheetName límite de Excel para nombres de hoja.
const MaxSheetName = 31

const unknownSheet = "Unknown"

// sheetNamer entrega nombres de hoja válidos y únicos dentro de un libro.
// Excel compara nombres sin distinguir mayúsculas.
type sheetNamer struct {
	max  int
	used map[string]bool
}

func newSheetNamer(max int) *sheetNamer {
	if max <= 0 || max > MaxSheetName {
		max = MaxSheetName
	}
	return &sheetNamer{max: max, used: make(map[string]bool)}
}

// Name limpia raw y lo desambigua con " (n)" si ya existe.
func (s *sheetNamer) Name(raw string) string {
	base := SanitizeSheetName(raw, s.max)
	name := base
	for n := 2; s.used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateRunes(base, s.max-utf8.RuneCountInString(suffix)) + suffix
	}
	s.used[strings.ToLower(name)] = true
	return name
}

// SanitizeSheetName reemplaza los caracteres prohibidos por "_", colapsa espacios
// y recorta a max runas. Un nombre vacío queda como "Unknown".
func SanitizeSheetName(raw string, max int) string {
	name := invalidSheetChars.ReplaceAllString(raw, "_")
	name = strings.TrimSpace(spaces.ReplaceAllString(name, " "))
	name = strings.TrimSpace(truncateRunes(name, max))
	if name == "" {
		return unknownSheet
	}
	return name
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
