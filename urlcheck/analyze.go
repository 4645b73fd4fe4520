package urlcheck

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Analyzer evaluates the local structural and lexical heuristics. It never
// performs I/O and never returns an error: unparseable input produces a
// terminal zero-score result instead.
type Analyzer struct {
	tables Tables
}

func NewAnalyzer(tables Tables) *Analyzer {
	return &Analyzer{tables: tables}
}

// schemePrefix matches an explicit scheme at the front of the input. Bare
// domains get https:// prepended; anything with its own scheme is parsed
// verbatim so a dangerous scheme is flagged rather than silently coerced.
var schemePrefix = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://`)

// opaqueScheme catches non-hierarchical schemes (javascript:, data:,
// mailto:) which carry no // but must not be mistaken for bare domains.
var opaqueScheme = regexp.MustCompile(`(?i)^(javascript|data|mailto|vbscript|file|ftp|tel|ssh):`)

const (
	maxSubdomainLabels = 5
	entropyMinLabelLen = 12
	entropyThreshold   = 3.7
	maxLabelHyphens    = 3
)

// Analyze runs every structural check against the candidate string and
// returns the initial ValidationResult. All checks always run; no
// short-circuiting, so every applicable flag is surfaced in one pass.
func (a *Analyzer) Analyze(raw string) ValidationResult {
	input := strings.TrimSpace(raw)
	if input == "" {
		return terminalResult(input, "empty input")
	}

	if !schemePrefix.MatchString(input) && !opaqueScheme.MatchString(input) {
		input = "https://" + input
	}

	u, err := url.Parse(input)
	if err != nil {
		return terminalResult(raw, "input could not be parsed as a URL")
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		// Opaque or hostless URL: nothing to analyze. A non-approved
		// scheme is still the headline problem, so say so.
		if u.Scheme != "http" && u.Scheme != "https" {
			r := terminalResult(raw, fmt.Sprintf("URL uses non-approved scheme %q", u.Scheme))
			r.Flags = append(r.Flags, fmt.Sprintf("scheme %q is not an approved scheme", u.Scheme))
			return r
		}
		return terminalResult(raw, "URL has no hostname")
	}

	c := CheckSet{
		ValidScheme:          u.Scheme == "http" || u.Scheme == "https",
		NotRawIP:             !isRawIPHost(host),
		NoCredentials:        u.User == nil || u.User.String() == "",
		NotShortener:         !a.isShortener(host),
		NoSuspiciousPattern:  !a.hasSuspiciousPattern(u),
		NotPunycode:          !hasPunycodeLabel(host),
		ValidTLD:             hasValidTLD(host),
		NotBrandSquat:        true,
		NotTyposquat:         true,
		NormalSubdomainDepth: strings.Count(host, ".")+1 < maxSubdomainLabels,
		NotHighRiskTLD:       !a.isHighRiskTLD(host),
		LowEntropy:           !hasHighEntropyLabel(host),
		NotExcessiveHyphens:  !hasExcessiveHyphens(host),
	}

	registered := RegisteredDomain(host)
	squatBrand := a.brandSquat(host, registered)
	c.NotBrandSquat = squatBrand == ""
	typoBrand := a.typosquat(registered)
	c.NotTyposquat = typoBrand == ""

	r := ValidationResult{
		URL:    u.String(),
		Checks: c,
		Source: "local",
	}
	r.Flags = structuralFlags(c, u.Scheme, squatBrand, typoBrand)
	return finalize(r)
}

// terminalResult is the analyzer's failure path: score 0, unsafe, and an
// empty canonical URL so the pipeline knows not to run external stages.
func terminalResult(raw, why string) ValidationResult {
	return ValidationResult{
		URL:     "",
		Score:   0,
		Safe:    false,
		Message: why,
		Flags:   []string{why},
		Source:  "local",
	}
}

// isRawIPHost rejects dotted-decimal, IPv6, bare-integer and hex-integer
// host forms. url.Hostname already strips IPv6 brackets, and Go's parser
// does not normalize integer forms, so they are matched explicitly.
func isRawIPHost(host string) bool {
	if net.ParseIP(host) != nil {
		return true
	}
	if _, err := strconv.ParseUint(host, 10, 64); err == nil {
		return true
	}
	if strings.HasPrefix(host, "0x") {
		if _, err := strconv.ParseUint(host[2:], 16, 64); err == nil {
			return true
		}
	}
	return false
}

func (a *Analyzer) isShortener(host string) bool {
	// The conventional www alias and the bare form are the same service.
	host = strings.TrimPrefix(host, "www.")
	return a.tables.Shorteners[host]
}

// hasSuspiciousPattern matches the curated expressions against path and
// query only. Matching the hostname would false-positive on legitimate
// domains that merely contain a sensitive word (accountants.com).
func (a *Analyzer) hasSuspiciousPattern(u *url.URL) bool {
	target := u.EscapedPath()
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	if target == "" {
		return false
	}
	for _, re := range a.tables.SuspiciousPatterns {
		if re.MatchString(target) {
			return true
		}
	}
	return false
}

// hasPunycodeLabel is true only when a label begins with the ACE prefix.
// Substring containment anywhere in the hostname is not enough: a domain
// like oxn--files.com must not trip this.
func hasPunycodeLabel(host string) bool {
	for _, label := range strings.Split(host, ".") {
		if strings.HasPrefix(label, "xn--") {
			return true
		}
	}
	return false
}

func hasValidTLD(host string) bool {
	i := strings.LastIndexByte(host, '.')
	if i < 0 {
		return false
	}
	return len(host)-i-1 >= 2
}

func (a *Analyzer) isHighRiskTLD(host string) bool {
	i := strings.LastIndexByte(host, '.')
	if i < 0 {
		return false
	}
	return a.tables.HighRiskTLDs[host[i+1:]]
}

// hasHighEntropyLabel flags DGA-style hostnames: any non-TLD label long
// enough to measure with character entropy above the cutoff. Hyphens are
// separators, not part of the generated label, so they are stripped
// before measuring.
func hasHighEntropyLabel(host string) bool {
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels[:len(labels)-1] {
		label = strings.ReplaceAll(label, "-", "")
		if len(label) >= entropyMinLabelLen && shannonEntropy(label) > entropyThreshold {
			return true
		}
	}
	return false
}

func hasExcessiveHyphens(host string) bool {
	for _, label := range strings.Split(host, ".") {
		if strings.Count(label, "-") >= maxLabelHyphens {
			return true
		}
	}
	return false
}

// brandSquat reports the impersonated brand, or "" when clean. A brand
// name counts only when it appears as a whole label bounded by dots,
// hyphens or string edges, and the registrable domain is neither the
// brand's canonical domain nor a ccTLD variant of it.
func (a *Analyzer) brandSquat(host, registered string) string {
	tokens := strings.FieldsFunc(host, func(r rune) bool {
		return r == '.' || r == '-'
	})

	for _, brand := range a.sortedBrands() {
		canonical := a.tables.Brands[brand]
		found := false
		for _, tok := range tokens {
			if tok == brand {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		if registered == canonical {
			continue
		}
		// google.co.uk carries the canonical label under a compound
		// suffix; that is the brand itself, not an impersonation.
		if firstLabel(registered) == firstLabel(canonical) {
			continue
		}
		return brand
	}
	return ""
}

// typosquat reports the brand the registrable domain imitates, or "".
// The first label is normalized (look-alike digits substituted, hyphens
// stripped) and compared against brand names: an exact normalized match,
// or edit distance <=1 for longer brands. Short brand names are exempt to
// avoid false positives on common short words.
func (a *Analyzer) typosquat(registered string) string {
	label := firstLabel(registered)
	if label == "" {
		return ""
	}
	norm := normalizeLabel(label)

	for _, brand := range a.sortedBrands() {
		canonical := a.tables.Brands[brand]
		// The canonical domain and its compound-suffix variants are the
		// brand, not a squat. Compare the raw label: g00gle must not be
		// exempted just because it normalizes to google.
		if registered == canonical || label == firstLabel(canonical) {
			continue
		}
		if len(brand) >= 5 && norm == brand {
			return brand
		}
		if len(brand) >= 6 && abs(len(norm)-len(brand)) <= 1 && levenshtein(norm, brand) <= 1 {
			return brand
		}
	}
	return ""
}

// structuralFlags builds the ordered flag list for the local pass. Order
// is fixed so reruns produce byte-identical output.
func structuralFlags(c CheckSet, scheme, squatBrand, typoBrand string) []string {
	var flags []string
	if !c.ValidScheme {
		flags = append(flags, fmt.Sprintf("scheme %q is not an approved scheme", scheme))
	}
	if !c.NotRawIP {
		flags = append(flags, "URL addresses a raw IP instead of a domain name")
	}
	if !c.NoCredentials {
		flags = append(flags, "URL embeds credentials before the hostname")
	}
	if !c.NotShortener {
		flags = append(flags, "link uses a URL shortening service that hides the destination")
	}
	if !c.NoSuspiciousPattern {
		flags = append(flags, "path or query contains phishing-style keywords")
	}
	if !c.NotPunycode {
		flags = append(flags, "hostname uses punycode encoding that can disguise look-alike characters")
	}
	if !c.ValidTLD {
		flags = append(flags, "hostname has no valid top-level domain")
	}
	if !c.NotBrandSquat {
		flags = append(flags, fmt.Sprintf("hostname impersonates %q but is not the official domain", squatBrand))
	}
	if !c.NotTyposquat {
		flags = append(flags, fmt.Sprintf("domain name is a near-miss spelling of %q", typoBrand))
	}
	if !c.NormalSubdomainDepth {
		flags = append(flags, "unusually deep subdomain nesting")
	}
	if !c.NotHighRiskTLD {
		flags = append(flags, "top-level domain has a high abuse rate")
	}
	if !c.LowEntropy {
		flags = append(flags, "hostname label looks machine-generated")
	}
	if !c.NotExcessiveHyphens {
		flags = append(flags, "excessive hyphenation in hostname")
	}
	return flags
}

// sortedBrands keeps brand iteration deterministic so the same input
// always reports the same flag.
func (a *Analyzer) sortedBrands() []string {
	brands := make([]string, 0, len(a.tables.Brands))
	for b := range a.tables.Brands {
		brands = append(brands, b)
	}
	sort.Strings(brands)
	return brands
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
