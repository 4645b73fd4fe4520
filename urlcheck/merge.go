package urlcheck

import "fmt"

// The merge layer folds each asynchronous signal back into the result.
// Every merge is a pure transformation: the prior result is copied, the
// relevant CheckSet field is set (never un-set once decided), score,
// verdict and message are recomputed, and any newly relevant flags are
// appended. Flags are never removed or reordered, so running fewer stages
// always yields a strict subset of the flags of running all of them.

// ApplyHeadResult folds the reachability probe in.
func ApplyHeadResult(r ValidationResult, pr ProbeResult) ValidationResult {
	r.Flags = copyFlags(r.Flags)

	if r.Checks.Resolves == Unknown {
		r.Checks.Resolves = pr.Resolves
		if pr.Resolves == Fail {
			r.Flags = append(r.Flags, "hostname did not resolve to any address")
		}
	}
	if pr.FinalURL != "" && pr.FinalURL != r.URL {
		r.RedirectedTo = pr.FinalURL
		r.Flags = append(r.Flags, fmt.Sprintf("request is redirected to %s", pr.FinalURL))
	}
	r.Source += ",head"
	return finalize(r)
}

// ApplyRedirectResult merges the independently analyzed redirect
// destination: the worse of the two results wins on every structural
// check, and the destination's flags are appended with a label so the
// consumer can tell which findings pertain to the redirect target.
func ApplyRedirectResult(r ValidationResult, dest ValidationResult) ValidationResult {
	r.Flags = copyFlags(r.Flags)

	c := r.Checks
	d := dest.Checks
	c.ValidScheme = c.ValidScheme && d.ValidScheme
	c.NotRawIP = c.NotRawIP && d.NotRawIP
	c.NoCredentials = c.NoCredentials && d.NoCredentials
	c.NotShortener = c.NotShortener && d.NotShortener
	c.NoSuspiciousPattern = c.NoSuspiciousPattern && d.NoSuspiciousPattern
	c.NotPunycode = c.NotPunycode && d.NotPunycode
	c.ValidTLD = c.ValidTLD && d.ValidTLD
	c.NotBrandSquat = c.NotBrandSquat && d.NotBrandSquat
	c.NotTyposquat = c.NotTyposquat && d.NotTyposquat
	c.NormalSubdomainDepth = c.NormalSubdomainDepth && d.NormalSubdomainDepth
	c.NotHighRiskTLD = c.NotHighRiskTLD && d.NotHighRiskTLD
	c.LowEntropy = c.LowEntropy && d.LowEntropy
	c.NotExcessiveHyphens = c.NotExcessiveHyphens && d.NotExcessiveHyphens
	r.Checks = c

	for _, f := range dest.Flags {
		r.Flags = append(r.Flags, "redirect destination: "+f)
	}
	r.RedirectedTo = dest.URL
	r.Source += ",redirect"
	return finalize(r)
}

// ApplyDomainAgeResult folds the registration-age lookup in.
func ApplyDomainAgeResult(r ValidationResult, age TriState) ValidationResult {
	r.Flags = copyFlags(r.Flags)

	if r.Checks.EstablishedDomain == Unknown {
		r.Checks.EstablishedDomain = age
		if age == Fail {
			r.Flags = append(r.Flags, "domain was registered less than 30 days ago")
		}
	}
	r.Source += ",whois"
	return finalize(r)
}

// ApplySafeBrowsingResult folds the threat-list answer in. A transient
// failure after the check was attempted does not report clean: the score
// is capped defensively and the result carries an explicit degraded
// marker, so "we tried and failed" is distinguishable from "we didn't
// check" and from a clean pass.
func ApplySafeBrowsingResult(r ValidationResult, flagged bool, attemptErr error) ValidationResult {
	r.Flags = copyFlags(r.Flags)

	switch {
	case attemptErr != nil:
		r.Degraded = true
		r.Flags = append(r.Flags, "threat-list coverage was unavailable for this check; confidence reduced")
	case r.Checks.SafeBrowsing == Unknown:
		if flagged {
			r.Checks.SafeBrowsing = Fail
			r.Flags = append(r.Flags, "URL is listed by Google Safe Browsing as dangerous")
		} else {
			r.Checks.SafeBrowsing = Pass
		}
	}
	r.Source += ",safebrowsing"
	return finalize(r)
}

// copyFlags keeps merges copy-on-write: appending to the new result must
// never reach the backing array of a prior, already-returned one.
func copyFlags(flags []string) []string {
	out := make([]string, len(flags))
	copy(out, flags)
	return out
}
