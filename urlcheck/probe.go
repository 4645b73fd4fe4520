package urlcheck

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	probeHopTimeout = 5 * time.Second
	probeMaxHops    = 5
	probeUserAgent  = "urlvet-probe/1.0 (+https://github.com/urlvet)"
)

// reservedNets are address ranges the probe must never dial: loopback,
// private, link-local, shared address space, benchmarking and
// documentation ranges, for both IPv4 and IPv6. net.IP's own predicates
// cover the common ones; the rest are listed explicitly.
var reservedNets = mustParseCIDRs(
	"100.64.0.0/10",  // shared address space (CGNAT)
	"192.0.2.0/24",   // documentation
	"198.51.100.0/24",
	"203.0.113.0/24",
	"198.18.0.0/15", // benchmarking
	"192.0.0.0/24",  // IETF protocol assignments
	"2001:db8::/32", // documentation
	"64:ff9b::/96",  // NAT64
)

// internalHostSuffixes are conventional internal naming schemes that must
// not be probed even when they happen to resolve publicly.
var internalHostSuffixes = []string{
	".localhost",
	".local",
	".internal",
	".intranet",
	".lan",
	".corp",
	".home",
	".home.arpa",
}

var internalHostnames = map[string]bool{
	"localhost":                true,
	"metadata":                 true,
	"instance-data":            true,
	"metadata.google.internal": true,
}

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}

// Prober issues HEAD-equivalent reachability probes with redirects
// followed manually, one SSRF-guarded hop at a time.
type Prober struct {
	client  *http.Client
	maxHops int

	// allowPrivate disables the SSRF guard so tests can dial httptest
	// servers on loopback. Never set outside tests.
	allowPrivate bool
}

func NewProber() *Prober {
	return &Prober{
		client: &http.Client{
			Timeout: probeHopTimeout,
			// Redirects are followed manually so every hop goes back
			// through the SSRF guard.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		maxHops: probeMaxHops,
	}
}

// Probe reports whether the URL's host answers at all and where the
// redirect chain lands. The asymmetry in the result matters: only a
// definitive name-resolution failure maps to Fail. A TLS error, timeout
// or refused connection says nothing about whether the site exists, so
// those stay Unknown and never penalize.
func (p *Prober) Probe(ctx context.Context, rawURL string) ProbeResult {
	current := rawURL
	visited := map[string]bool{rawURL: true}
	alive := false
	lastOK := ""

	for hop := 0; hop < p.maxHops; hop++ {
		u, err := url.Parse(current)
		if err != nil || u.Hostname() == "" {
			break
		}

		if p.blockedHost(ctx, u.Hostname()) {
			log.Printf("[probe] refusing to dial reserved address: %s", u.Hostname())
			break
		}

		resp, err := p.head(ctx, current)
		if err != nil {
			if !alive && isNameNotFound(err) {
				return ProbeResult{Resolves: Fail}
			}
			break
		}
		resp.Body.Close()

		alive = true
		lastOK = current

		next := redirectTarget(resp, u)
		if next == "" {
			break
		}
		if visited[next] {
			log.Printf("[probe] redirect loop detected at %s", next)
			break
		}
		visited[next] = true
		current = next
	}

	if !alive {
		return ProbeResult{Resolves: Unknown}
	}
	return ProbeResult{Resolves: Pass, FinalURL: lastOK}
}

func (p *Prober) head(ctx context.Context, target string) (*http.Response, error) {
	hopCtx, cancel := context.WithTimeout(ctx, probeHopTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(hopCtx, http.MethodHead, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", probeUserAgent)
	return p.client.Do(req)
}

// redirectTarget resolves the Location header against the current URL on
// a 3xx response, or returns "" when the chain ends here.
func redirectTarget(resp *http.Response, base *url.URL) string {
	if resp.StatusCode < 300 || resp.StatusCode > 399 {
		return ""
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return ""
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// blockedHost is the SSRF guard. It runs before every outbound request
// the probe issues, including each redirect hop. Literal addresses are
// checked directly; names are resolved and every returned address is
// checked, so a public name pointing at an internal address is refused.
func (p *Prober) blockedHost(ctx context.Context, host string) bool {
	if p.allowPrivate {
		return false
	}

	lower := strings.ToLower(strings.TrimSuffix(host, "."))
	if internalHostnames[lower] {
		return true
	}
	for _, suffix := range internalHostSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}

	if ip := net.ParseIP(lower); ip != nil {
		return isReservedIP(ip)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, probeHopTimeout)
	defer cancel()
	addrs, err := net.DefaultResolver.LookupIPAddr(lookupCtx, lower)
	if err != nil {
		// Leave classification to the request itself; a failed lookup
		// here is not evidence of an internal target.
		return false
	}
	for _, addr := range addrs {
		if isReservedIP(addr.IP) {
			return true
		}
	}
	return false
}

func isReservedIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return true
	}
	for _, n := range reservedNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// isNameNotFound is true only for a definitive NXDOMAIN-style failure.
// Conflating "host does not exist" with "host had a TLS problem" would
// unfairly penalize legitimate sites with certificate issues.
func isNameNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
