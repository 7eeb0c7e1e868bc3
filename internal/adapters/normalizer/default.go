package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/baditaflorin/review_sentiment/internal/pool"
	"github.com/baditaflorin/review_sentiment/internal/ports"
)

// DefaultNormalizer implements the canonical cleaning of review text:
// lowercase, drop everything that is not an ASCII letter or whitespace,
// collapse whitespace runs into one space and trim.
type DefaultNormalizer struct {
	casers  *pool.CaserPool
	remover runes.Transformer
}

// NewDefaultNormalizer creates a new default normalizer.
func NewDefaultNormalizer() ports.Normalizer {
	return newDefaultNormalizer()
}

func newDefaultNormalizer() *DefaultNormalizer {
	return &DefaultNormalizer{
		casers:  pool.NewCaserPool(language.Und),
		remover: runes.Remove(runes.Predicate(isDisallowed)),
	}
}

// Normalize cleans a single text value.
func (n *DefaultNormalizer) Normalize(text string) string {
	if len(text) == 0 {
		return ""
	}

	caser := n.casers.Get()
	lowered := caser.String(text)
	n.casers.Put(caser)

	filtered, _, err := transform.String(n.remover, lowered)
	if err != nil {
		filtered = strings.Map(func(r rune) rune {
			if isDisallowed(r) {
				return -1
			}
			return r
		}, lowered)
	}

	return collapseSpace(filtered)
}

// isSpace matches the whitespace class used for collapsing: Unicode White_Space
// plus the ASCII information separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func isDisallowed(r rune) bool {
	return !(r >= 'a' && r <= 'z') && !isSpace(r)
}

// collapseSpace replaces every whitespace run with a single space and trims both ends.
func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	pendingSpace := false
	for _, r := range s {
		if isSpace(r) {
			pendingSpace = sb.Len() > 0
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
