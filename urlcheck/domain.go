package urlcheck

import (
	"math"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RegisteredDomain returns the registrable portion (eTLD+1) of a hostname,
// lowercased. The public suffix list keeps compound suffixes straight, so
// shop.example.co.uk reduces to example.co.uk and not co.uk. When the list
// rejects the input (raw IPs, single labels, bare suffixes) we fall back
// to the last two labels rather than failing the whole analysis.
func RegisteredDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return ""
	}

	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}

	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// firstLabel returns everything before the first dot.
func firstLabel(domain string) string {
	if i := strings.IndexByte(domain, '.'); i >= 0 {
		return domain[:i]
	}
	return domain
}

// leetSubstitutions maps common digit/symbol look-alikes back to the
// letter they stand in for. Used to normalize candidate labels before
// comparing against brand names.
var leetSubstitutions = map[rune]rune{
	'0': 'o',
	'1': 'l',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'8': 'b',
	'9': 'g',
	'@': 'a',
	'$': 's',
	'!': 'i',
}

// normalizeLabel substitutes look-alike characters and strips hyphens, so
// "g00gle" and "g-o-o-g-l-e" both collapse toward "google".
func normalizeLabel(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range strings.ToLower(label) {
		if r == '-' {
			continue
		}
		if sub, ok := leetSubstitutions[r]; ok {
			r = sub
		}
		b.WriteRune(r)
	}
	return b.String()
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// shannonEntropy returns the character-level entropy of s in bits per
// character. Machine-generated (DGA) labels cluster well above natural
// language.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}

	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}

	entropy := 0.0
	for _, n := range freq {
		p := float64(n) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
