package advisor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minLineLength = 15
	minItemLength = 30
)

var (
	enumerationPattern = regexp.MustCompile(`^(?:\d{1,2}[.)]|[-•*])`)
	leadingMarker      = regexp.MustCompile(`^\s*(?:\d{1,2}[.)]|[-•])\s*`)
	whitespace         = regexp.MustCompile(`\s+`)
	emphasisReplacer   = strings.NewReplacer("**", "", "__", "", "*", "", "`", "")

	actionVerbs = []string{
		"reduce", "increase", "allocate", "consider", "adjust", "review",
		"create", "establish", "set", "implement", "focus", "prioritize",
	}
	discardedOpenings = []string{"here", "based on"}
)

// ParseResponse splits free-form model output into discrete recommendations.
// Header lines are skipped, continuation lines are joined to the item they
// follow and markdown emphasis is removed. An empty result means the response
// was unusable.
func ParseResponse(text string) []string {
	var raw []string
	current := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if isHeaderLine(line) {
			continue
		}
		if startsItem(line) {
			if current != "" {
				raw = append(raw, current)
			}
			current = line
			continue
		}
		if current == "" {
			current = line
		} else {
			current += " " + line
		}
	}
	if current != "" {
		raw = append(raw, current)
	}

	items := make([]string, 0, len(raw))
	for _, item := range raw {
		if cleaned, ok := cleanItem(item); ok {
			items = append(items, cleaned)
		}
	}
	return items
}

func isHeaderLine(line string) bool {
	if utf8.RuneCountInString(line) < minLineLength {
		return true
	}
	if strings.HasSuffix(line, ":") {
		return true
	}
	return strings.ToUpper(line) == line && strings.ToLower(line) != line
}

func startsItem(line string) bool {
	if enumerationPattern.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, verb := range actionVerbs {
		if strings.HasPrefix(lower, verb+" ") {
			return true
		}
	}
	return false
}

func cleanItem(item string) (string, bool) {
	item = leadingMarker.ReplaceAllString(item, "")
	item = emphasisReplacer.Replace(item)
	item = leadingMarker.ReplaceAllString(item, "")
	item = strings.TrimSpace(whitespace.ReplaceAllString(item, " "))

	if utf8.RuneCountInString(item) <= minItemLength {
		return "", false
	}
	lower := strings.ToLower(item)
	for _, opening := range discardedOpenings {
		if strings.HasPrefix(lower, opening) {
			return "", false
		}
	}
	if !strings.HasSuffix(item, ".") && !strings.HasSuffix(item, "!") && !strings.HasSuffix(item, "?") {
		item += "."
	}
	return item, true
}
