package slug

import (
	"regexp"
	"strconv"
	"strings"
)

// MinLength минимальная длина публичного slug
const MinLength = 3

var validSlug = regexp.MustCompile(`^[a-z0-9-]+$`)

// Make преобразует произвольное название в slug: нижний регистр, [a-z0-9-], без двойных дефисов.
// Слишком короткий результат дополняется суффиксом "-cal".
func Make(name string) string {
	var b strings.Builder
	lastDash := true

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	result := strings.Trim(b.String(), "-")
	if result == "" {
		return "calendar"
	}
	if len(result) < MinLength {
		result += "-cal"
	}
	return result
}

// WithSuffix добавляет числовой суффикс для разрешения коллизий: base-2, base-3, ...
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// Valid проверяет формат slug
func Valid(s string) bool {
	return len(s) >= MinLength && validSlug.MatchString(s)
}
