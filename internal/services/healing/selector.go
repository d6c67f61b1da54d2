package healing

import (
	"regexp"
	"strings"
)

// parsedSelector is what the strategies can extract from a broken selector:
// a stable element identifier, an ARIA role/label pair, or literal text.
type parsedSelector struct {
	TestID string // value of a data-testid attribute selector
	Role   string
	Label  string
	Text   string
}

var (
	testIDPattern  = regexp.MustCompile(`\[data-testid=["']?([^"'\]]+)["']?\]`)
	rolePattern    = regexp.MustCompile(`role=([a-zA-Z]+)\[name=["']([^"']+)["']\]`)
	textEqPattern  = regexp.MustCompile(`^text=(.+)$`)
	hasTextPattern = regexp.MustCompile(`:has-text\(["']([^"']+)["']\)`)
)

// parseSelector extracts whatever stable hints the selector encodes. All
// fields may be empty for purely structural selectors.
func parseSelector(selector string) parsedSelector {
	parsed := parsedSelector{}

	if m := testIDPattern.FindStringSubmatch(selector); m != nil {
		parsed.TestID = m[1]
	}
	if m := rolePattern.FindStringSubmatch(selector); m != nil {
		parsed.Role = m[1]
		parsed.Label = m[2]
	}
	if m := textEqPattern.FindStringSubmatch(strings.TrimSpace(selector)); m != nil {
		parsed.Text = strings.Trim(m[1], `"'`)
	} else if m := hasTextPattern.FindStringSubmatch(selector); m != nil {
		parsed.Text = m[1]
	}

	return parsed
}

var (
	kebabSegment = regexp.MustCompile(`-([a-z0-9])`)
	camelBound   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	digitRun     = regexp.MustCompile(`\d+`)
)

// commonPrefixes are identifier prefixes teams add or drop over time.
var commonPrefixes = []string{"test-", "qa-", "e2e-"}

// identifierVariants generates morphological variants of a stable
// identifier: digits stripped, kebab<->camel conversion, common prefixes
// added and removed. The original identifier is never included.
func identifierVariants(id string) []string {
	seen := map[string]bool{id: true}
	variants := []string{}
	add := func(candidate string) {
		candidate = strings.Trim(candidate, "-")
		if candidate == "" || seen[candidate] {
			return
		}
		seen[candidate] = true
		variants = append(variants, candidate)
	}

	add(digitRun.ReplaceAllString(id, ""))
	add(kebabToCamel(id))
	add(camelToKebab(id))

	for _, prefix := range commonPrefixes {
		if strings.HasPrefix(id, prefix) {
			add(strings.TrimPrefix(id, prefix))
		} else {
			add(prefix + id)
		}
	}

	return variants
}

func kebabToCamel(s string) string {
	return kebabSegment.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

func camelToKebab(s string) string {
	return strings.ToLower(camelBound.ReplaceAllString(s, "$1-$2"))
}
