package urlcheck

// CheckSet records the outcome of every heuristic and external signal for
// one candidate URL. Structural checks are plain booleans because the
// analyzer always decides them; external signals are tri-state because a
// timed-out or skipped lookup must never count as a confirmed failure.
//
// Field polarity is "true means safe" throughout, so a fully clean URL is
// all-true with externals at Pass.
type CheckSet struct {
	ValidScheme          bool `json:"valid_scheme"`
	NotRawIP             bool `json:"not_raw_ip"`
	NoCredentials        bool `json:"no_credentials"`
	NotShortener         bool `json:"not_shortener"`
	NoSuspiciousPattern  bool `json:"no_suspicious_pattern"`
	NotPunycode          bool `json:"not_punycode"`
	ValidTLD             bool `json:"valid_tld"`
	NotBrandSquat        bool `json:"not_brand_squat"`
	NotTyposquat         bool `json:"not_typosquat"`
	NormalSubdomainDepth bool `json:"normal_subdomain_depth"`
	NotHighRiskTLD       bool `json:"not_high_risk_tld"`
	LowEntropy           bool `json:"low_entropy"`
	NotExcessiveHyphens  bool `json:"not_excessive_hyphens"`

	Resolves          TriState `json:"resolves"`
	EstablishedDomain TriState `json:"established_domain"`
	SafeBrowsing      TriState `json:"safe_browsing"`
}

// ValidationResult is the engine's output. Results are immutable: every
// merge stage copies the previous result, so each intermediate stage can
// be inspected and tested on its own.
type ValidationResult struct {
	URL          string   `json:"url"`
	Score        int      `json:"score"`
	Safe         bool     `json:"safe"`
	Checks       CheckSet `json:"checks"`
	Message      string   `json:"message"`
	Flags        []string `json:"flags"`
	Source       string   `json:"source"`
	RedirectedTo string   `json:"redirected_to,omitempty"`
	Degraded     bool     `json:"degraded,omitempty"`
}

// ProbeResult is what the outbound network probe reports back: whether the
// host answered at all, and where the redirect chain finally landed.
type ProbeResult struct {
	Resolves TriState
	FinalURL string
}
