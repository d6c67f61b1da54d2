package analyzer

import "regexp"

// signatureMaxLen bounds signature length so huge stack-laden messages still
// group cheaply.
const signatureMaxLen = 200

var (
	urlPattern  = regexp.MustCompile(`https?://[^\s"')]+`)
	uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	numPattern  = regexp.MustCompile(`\d+`)
)

// NormalizeSignature collapses volatile substrings (URLs, UUIDs, digit runs)
// into fixed placeholders so failures differing only in dynamic data group
// together. Normalization is idempotent: placeholders contain no characters
// the patterns match.
func NormalizeSignature(message string) string {
	s := urlPattern.ReplaceAllString(message, "<URL>")
	s = uuidPattern.ReplaceAllString(s, "<UUID>")
	s = numPattern.ReplaceAllString(s, "<N>")
	if len(s) > signatureMaxLen {
		s = s[:signatureMaxLen]
	}
	return s
}
