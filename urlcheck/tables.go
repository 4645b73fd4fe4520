package urlcheck

import "regexp"

// Tables holds the curated static data the analyzer runs against. The
// tables are read-only after startup and are injected into the analyzer so
// tests can swap in smaller sets.
type Tables struct {
	// Brands maps a brand token to its canonical registrable domain.
	Brands map[string]string
	// Shorteners are known URL shortening services, bare hostnames only.
	Shorteners map[string]bool
	// HighRiskTLDs are TLDs with disproportionate abuse rates.
	HighRiskTLDs map[string]bool
	// SuspiciousPatterns are matched against path+query only, never the
	// hostname, so a legitimate domain containing a sensitive word does
	// not false-positive.
	SuspiciousPatterns []*regexp.Regexp
}

// DefaultTables returns the built-in curated sets.
func DefaultTables() Tables {
	return Tables{
		Brands: map[string]string{
			"google":     "google.com",
			"paypal":     "paypal.com",
			"apple":      "apple.com",
			"amazon":     "amazon.com",
			"microsoft":  "microsoft.com",
			"facebook":   "facebook.com",
			"netflix":    "netflix.com",
			"instagram":  "instagram.com",
			"whatsapp":   "whatsapp.com",
			"linkedin":   "linkedin.com",
			"dropbox":    "dropbox.com",
			"coinbase":   "coinbase.com",
			"binance":    "binance.com",
			"chase":      "chase.com",
			"wellsfargo": "wellsfargo.com",
			"adobe":      "adobe.com",
			"github":     "github.com",
			"roblox":     "roblox.com",
			"steam":      "steampowered.com",
			"ebay":       "ebay.com",
		},
		Shorteners: map[string]bool{
			"bit.ly":      true,
			"tinyurl.com": true,
			"t.co":        true,
			"goo.gl":      true,
			"is.gd":       true,
			"v.gd":        true,
			"ow.ly":       true,
			"buff.ly":     true,
			"rebrand.ly":  true,
			"cutt.ly":     true,
			"tiny.cc":     true,
			"rb.gy":       true,
			"lnkd.in":     true,
			"s.id":        true,
			"shorturl.at": true,
		},
		HighRiskTLDs: map[string]bool{
			"tk":       true,
			"ml":       true,
			"ga":       true,
			"cf":       true,
			"gq":       true,
			"top":      true,
			"xyz":      true,
			"club":     true,
			"work":     true,
			"click":    true,
			"link":     true,
			"zip":      true,
			"mov":      true,
			"country":  true,
			"stream":   true,
			"download": true,
			"loan":     true,
			"racing":   true,
			"men":      true,
			"gdn":      true,
			"bid":      true,
			"review":   true,
			"quest":    true,
			"cam":      true,
			"rest":     true,
		},
		SuspiciousPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\blogin\b`),
			regexp.MustCompile(`(?i)\bsignin\b`),
			regexp.MustCompile(`(?i)\bverify\b`),
			regexp.MustCompile(`(?i)\bverification\b`),
			regexp.MustCompile(`(?i)\baccount.{0,12}(suspend|lock|limit|confirm)`),
			regexp.MustCompile(`(?i)\bsecure.{0,8}(pay|update|account)`),
			regexp.MustCompile(`(?i)\bwebscr\b`),
			regexp.MustCompile(`(?i)\bpassword\b`),
			regexp.MustCompile(`(?i)\bbanking\b`),
			regexp.MustCompile(`(?i)\bwallet.{0,12}(connect|restore|recover)`),
			regexp.MustCompile(`(?i)\bconfirm.{0,12}identity\b`),
			regexp.MustCompile(`(?i)\bupdate.{0,12}(billing|payment)`),
			regexp.MustCompile(`(?i)\bgift.?card\b`),
			regexp.MustCompile(`(?i)\bfree.{0,8}(crypto|bitcoin|robux)`),
			regexp.MustCompile(`(?i)[?&](token|session|auth|otp)=`),
		},
	}
}
