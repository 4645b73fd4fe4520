package urlcheck

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"
)

// Config wires the engine together. Every external dependency is
// optional: an empty SafeBrowsingKey skips the threat-list stage, and
// DisableNetwork turns off the probe and age lookup entirely (local
// heuristics only).
type Config struct {
	SafeBrowsingKey string
	DisableNetwork  bool
}

// Validator runs the full scoring pipeline over a candidate string.
// It holds no per-request state: each Validate call is independent.
type Validator struct {
	analyzer *Analyzer
	prober   *Prober
	ages     *AgeChecker
	sb       *SafeBrowsingClient
	network  bool
}

func New(cfg Config) *Validator {
	v := &Validator{
		analyzer: NewAnalyzer(DefaultTables()),
		prober:   NewProber(),
		ages:     NewAgeChecker(),
		network:  !cfg.DisableNetwork,
	}
	if cfg.SafeBrowsingKey != "" {
		v.sb = NewSafeBrowsingClient(cfg.SafeBrowsingKey)
	}
	return v
}

// Validate is the engine's single public operation. Control flow: local
// analysis first; on parse failure the terminal result returns
// immediately. The reachability probe and the domain-age lookup are
// independent, so they fan out concurrently and join before scoring
// continues. The threat-list check runs strictly last because it is
// skipped when the merged score already indicates clear danger.
//
// No error ever escapes: every failure mode resolves to a value-level
// result.
func (v *Validator) Validate(ctx context.Context, candidate string) ValidationResult {
	res := v.analyzer.Analyze(candidate)
	if res.URL == "" {
		return res
	}
	if !v.network {
		return res
	}

	host := hostOf(res.URL)

	var pr ProbeResult
	age := Unknown

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pr = v.prober.Probe(gctx, res.URL)
		return nil
	})
	g.Go(func() error {
		age = v.ages.DomainAge(gctx, RegisteredDomain(host))
		return nil
	})
	_ = g.Wait()

	res = ApplyHeadResult(res, pr)

	// A redirect chain landing on a different registrable domain gets
	// its destination analyzed in its own right; the worse result wins.
	if pr.FinalURL != "" {
		finalHost := hostOf(pr.FinalURL)
		if finalHost != "" && RegisteredDomain(finalHost) != RegisteredDomain(host) {
			dest := v.analyzer.Analyze(pr.FinalURL)
			if dest.URL != "" {
				res = ApplyRedirectResult(res, dest)
			}
		}
	}

	res = ApplyDomainAgeResult(res, age)

	if v.sb != nil && res.Score >= threatListSkipBelow {
		flagged, err := v.sb.Check(ctx, res.URL)
		res = ApplySafeBrowsingResult(res, flagged, err)
	}

	return res
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
