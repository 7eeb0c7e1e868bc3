package normalizer

import (
	"strings"
	"testing"
)

func FuzzNormalize(f *testing.F) {
	f.Add("Great Product!! <b>Loved</b> it 100%")
	f.Add("")
	f.Add("   ")
	f.Add("   multiple   SPACES   ")
	f.Add("\xff\xfe")
	f.Add("\x00")
	f.Add("İstanbul Café")
	f.Add("a\x1c\x1d\x1e\x1fb")

	def := NewDefaultNormalizer()
	opt := NewOptimizedNormalizer()

	f.Fuzz(func(t *testing.T, s string) {
		result := def.Normalize(s)

		if second := def.Normalize(result); second != result {
			t.Errorf("not idempotent:\ninput:  %q\nfirst:  %q\nsecond: %q", s, result, second)
		}

		for i := 0; i < len(result); i++ {
			c := result[i]
			if !(c >= 'a' && c <= 'z') && c != ' ' {
				t.Fatalf("disallowed byte %q in %q (input %q)", c, result, s)
			}
		}
		if strings.Contains(result, "  ") {
			t.Errorf("double space in %q", result)
		}
		if result != strings.TrimSpace(result) {
			t.Errorf("untrimmed output %q", result)
		}

		if got := opt.Normalize(s); got != result {
			t.Errorf("implementations disagree on %q: default %q, optimized %q", s, result, got)
		}
	})
}
