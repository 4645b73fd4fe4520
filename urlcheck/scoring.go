package urlcheck

// Scoring constants. The magnitudes are tuned values; the composition
// order in Score is the actual contract. Additive weights reward passing
// structural checks, caps let a single strong negative signal override
// any number of weak positive ones.
const (
	// Additive weights, heaviest on the checks that correlate most
	// strongly with malice. They sum to 90; the reachability bonus
	// tops a fully clean, resolving URL out at 100.
	weightValidScheme          = 5
	weightNotRawIP             = 12
	weightNoCredentials        = 8
	weightNotShortener         = 5
	weightNoSuspiciousPattern  = 14
	weightNotPunycode          = 6
	weightValidTLD             = 5
	weightNotBrandSquat        = 10
	weightNotTyposquat         = 8
	weightNormalSubdomainDepth = 5
	weightNotHighRiskTLD       = 6
	weightLowEntropy           = 6

	hyphenDeduction  = 10
	resolveBonus     = 10
	resolveFailCap   = 25
	squatCap         = 40
	subdomainCap     = 50
	highRiskTLDCap   = 55
	entropyCap       = 55
	newDomainCap     = 45
	safeBrowsingCap  = 2
	degradedScoreCap = SafeThreshold
)

// SafeThreshold is the minimum score for a safe verdict. The verdict is
// not the comparison alone: hard-fail checks veto it independently, since
// a capped score can sit exactly on this boundary.
const SafeThreshold = 60

// threatListSkipBelow: once the merged score is already this low the
// result is clearly dangerous and the rate-limited threat-list quota is
// not worth spending.
const threatListSkipBelow = 30

// Score maps a CheckSet to a 0-100 score and a safe verdict. Pure and
// deterministic; calling it twice on the same CheckSet yields the same
// output. The step order below is load-bearing: reordering it changes
// verdicts on real inputs.
func Score(c CheckSet) (int, bool) {
	// 1. Additive weights for passing structural checks.
	score := 0
	if c.ValidScheme {
		score += weightValidScheme
	}
	if c.NotRawIP {
		score += weightNotRawIP
	}
	if c.NoCredentials {
		score += weightNoCredentials
	}
	if c.NotShortener {
		score += weightNotShortener
	}
	if c.NoSuspiciousPattern {
		score += weightNoSuspiciousPattern
	}
	if c.NotPunycode {
		score += weightNotPunycode
	}
	if c.ValidTLD {
		score += weightValidTLD
	}
	if c.NotBrandSquat {
		score += weightNotBrandSquat
	}
	if c.NotTyposquat {
		score += weightNotTyposquat
	}
	if c.NormalSubdomainDepth {
		score += weightNormalSubdomainDepth
	}
	if c.NotHighRiskTLD {
		score += weightNotHighRiskTLD
	}
	if c.LowEntropy {
		score += weightLowEntropy
	}

	// 2. Impersonation cap: a typosquat or brand squat can never climb
	// back over the safety threshold on the strength of other passes.
	if !c.NotTyposquat || !c.NotBrandSquat {
		score = capAt(score, squatCap)
	}

	// 3. Hyphenation deduction, floored at zero.
	if !c.NotExcessiveHyphens {
		score -= hyphenDeduction
		if score < 0 {
			score = 0
		}
	}

	// 4. Reachability, applied before the remaining caps so the bonus
	// cannot be used to escape them. Unknown never moves the score.
	switch c.Resolves {
	case Pass:
		score += resolveBonus
	case Fail:
		score = capAt(score, resolveFailCap)
	}

	// 5. Remaining ceilings, stable order.
	if !c.NormalSubdomainDepth {
		score = capAt(score, subdomainCap)
	}
	if !c.NotHighRiskTLD {
		score = capAt(score, highRiskTLDCap)
	}
	if !c.LowEntropy {
		score = capAt(score, entropyCap)
	}
	if c.EstablishedDomain == Fail {
		score = capAt(score, newDomainCap)
	}

	// 6. Threat-list hard override: this one signal always wins.
	if c.SafeBrowsing == Fail {
		score = capAt(score, safeBrowsingCap)
	}

	// 7. Clamp.
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	safe := score >= SafeThreshold &&
		c.NotBrandSquat &&
		c.NotTyposquat &&
		c.NormalSubdomainDepth &&
		c.NotHighRiskTLD &&
		c.EstablishedDomain != Fail &&
		c.SafeBrowsing != Fail

	return score, safe
}

func capAt(score, ceiling int) int {
	if score > ceiling {
		return ceiling
	}
	return score
}

// finalize recomputes score, verdict and message from the checks. Every
// stage that touches the CheckSet goes through here, so score and message
// can never drift apart. The degraded cap is applied after scoring: an
// attempted-but-failed threat-list lookup must not be reported with full
// confidence.
func finalize(r ValidationResult) ValidationResult {
	r.Score, r.Safe = Score(r.Checks)
	if r.Degraded {
		r.Score = capAt(r.Score, degradedScoreCap)
	}
	r.Message = buildMessage(r.Checks, r.Safe)
	return r
}

// buildMessage picks the single best explanation: first matching rule
// wins, ordered from most to least severe.
func buildMessage(c CheckSet, safe bool) string {
	switch {
	case c.SafeBrowsing == Fail:
		return "URL is flagged by threat intelligence as dangerous"
	case !c.NotBrandSquat:
		return "hostname impersonates a well-known brand"
	case !c.NotTyposquat:
		return "domain name looks like a typosquat of a well-known brand"
	case !c.NotRawIP:
		return "URL points at a raw IP address instead of a domain"
	case !c.NoSuspiciousPattern:
		return "URL path contains phishing-style keywords"
	case !c.NoCredentials:
		return "URL embeds credentials before the hostname"
	case !c.ValidScheme:
		return "URL does not use an approved scheme"
	case c.EstablishedDomain == Fail:
		return "domain was registered less than 30 days ago"
	case c.Resolves == Fail:
		return "hostname does not resolve"
	case !c.NotShortener:
		return "link hides its destination behind a URL shortener"
	case !c.NotPunycode:
		return "hostname uses punycode encoding"
	case !c.NotHighRiskTLD:
		return "domain uses a top-level domain with a high abuse rate"
	case !c.LowEntropy:
		return "hostname looks machine-generated"
	case !c.NormalSubdomainDepth:
		return "hostname has unusually deep subdomain nesting"
	case !c.NotExcessiveHyphens:
		return "hostname is excessively hyphenated"
	case !c.ValidTLD:
		return "hostname has no valid top-level domain"
	case safe:
		return "no significant risk indicators found"
	default:
		return "accumulated risk signals kept the score below the safety threshold"
	}
}
