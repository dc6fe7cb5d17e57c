package instruments

import (
	"regexp"
	"strings"
)

var exchangePrefixRe = regexp.MustCompile(`(?i)^F\.US\.`)

// Normalize turns a platform symbol such as "F.US.ESZ24.CME" or "ESZ4.CME" into the
// display/lookup token ("ESZ24", "ESZ4"). It is idempotent.
func Normalize(raw string) string {
	withoutPrefix := exchangePrefixRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if head, _, _ := strings.Cut(withoutPrefix, "."); strings.TrimSpace(head) != "" {
		return strings.TrimSpace(head)
	}
	return strings.TrimSpace(withoutPrefix)
}
