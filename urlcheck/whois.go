package urlcheck

import (
	"context"
	"log"
	"strings"
	"time"

	whois "github.com/likexian/whois"
	parser "github.com/likexian/whois-parser"
)

const (
	domainAgeTimeout = 8 * time.Second
	// minDomainAge: registrations younger than this are treated as a
	// confirmed negative signal. Phishing domains are overwhelmingly
	// used within days of registration.
	minDomainAge = 30 * 24 * time.Hour
)

// whoisDateLayouts covers the formats registries actually emit.
var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

// AgeChecker answers whether a registrable domain has existed long enough
// to be trusted, via the public registration-data protocol.
type AgeChecker struct {
	timeout time.Duration
}

func NewAgeChecker() *AgeChecker {
	return &AgeChecker{timeout: domainAgeTimeout}
}

// DomainAge returns Pass when the domain was registered at least 30 days
// ago, Fail when it is provably younger, and Unknown for everything else:
// no registration event, malformed data, timeout. Age is a bonus signal,
// not a requirement, so absence of data never penalizes.
func (a *AgeChecker) DomainAge(ctx context.Context, domain string) TriState {
	if domain == "" {
		return Unknown
	}

	type lookup struct {
		raw string
		err error
	}
	done := make(chan lookup, 1)
	go func() {
		raw, err := whois.Whois(domain)
		done <- lookup{raw: raw, err: err}
	}()

	var raw string
	select {
	case <-ctx.Done():
		return Unknown
	case <-time.After(a.timeout):
		log.Printf("[whois] lookup timed out for %s", domain)
		return Unknown
	case res := <-done:
		if res.err != nil {
			log.Printf("[whois] lookup failed for %s: %v", domain, res.err)
			return Unknown
		}
		raw = res.raw
	}

	created := parseCreatedDate(raw)
	if created.IsZero() {
		return Unknown
	}
	if time.Since(created) >= minDomainAge {
		return Pass
	}
	return Fail
}

func parseCreatedDate(raw string) time.Time {
	p, err := parser.Parse(raw)
	if err != nil || p.Domain == nil {
		return time.Time{}
	}

	createdStr := strings.TrimSpace(p.Domain.CreatedDate)
	for _, layout := range whoisDateLayouts {
		if t, err := time.Parse(layout, createdStr); err == nil {
			return t
		}
	}
	return time.Time{}
}
