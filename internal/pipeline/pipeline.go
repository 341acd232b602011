// Package pipeline runs the mirror list generation stages in order: fetch
// the status feed, prepare and filter the mirrors, sort them, and cap the
// result. Rendering is left to the caller, so the same pipeline backs both
// the generate command and the interactive browser.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/davoli/specchio/internal/config"
	"github.com/davoli/specchio/internal/errors"
	"github.com/davoli/specchio/internal/filter"
	"github.com/davoli/specchio/internal/logging"
	"github.com/davoli/specchio/internal/mirror"
	"github.com/davoli/specchio/internal/platform"
	"github.com/davoli/specchio/internal/sorting"
)

// Pipeline generates a filtered, sorted mirror set from the status feed.
type Pipeline struct {
	cfg    *config.Config
	logger *logging.Logger
	client *mirror.Client
	now    func() time.Time
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Mirrors is the final mirror set, filtered, sorted, and limited.
	Mirrors []mirror.Mirror
	// Total is the number of mirrors the feed advertised.
	Total int
	// FetchedAt is the reference time ages were computed against.
	FetchedAt time.Time
}

// New creates a Pipeline for the given configuration. Selecting a platform
// without a status backend fails here, before any network traffic.
func New(cfg *config.Config, logger *logging.Logger, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}

	p := &Pipeline{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		backend, err := platform.Select(cfg.Mirrors.Platform)
		if err != nil {
			return nil, err
		}

		url := cfg.Mirrors.URL
		if url == "" {
			url = backend.StatusURL
		}

		timeout := time.Duration(cfg.Mirrors.TimeoutSeconds) * time.Second
		p.client = mirror.NewClient(url, timeout, logger.WithPlatform(backend.Name))
	}

	return p, nil
}

// Run executes the pipeline once.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	status, err := p.client.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	now := p.now().UTC()
	mirrors := mirror.Prepare(status.URLs, p.logger)
	total := len(mirrors)

	criteria, err := filter.New(filter.Options{
		Countries: p.cfg.Filter.Countries,
		Protocols: p.cfg.Filter.Protocols,
		MaxAge:    time.Duration(p.cfg.Filter.MaxAgeHours * float64(time.Hour)),
		Match:     p.cfg.Filter.Match,
		NoMatch:   p.cfg.Filter.NoMatch,
		Complete:  p.cfg.Filter.Complete,
		Active:    p.cfg.Filter.Active,
		IPv4:      p.cfg.Filter.IPv4,
		IPv6:      p.cfg.Filter.IPv6,
		ISOs:      p.cfg.Filter.ISOs,
	})
	if err != nil {
		return nil, err
	}

	mirrors = criteria.Apply(mirrors, now)
	if len(mirrors) == 0 {
		return nil, errors.Wrap(errors.ErrNoMirrors, "filtering")
	}

	sorting.New(p.cfg.Sort.Keys, p.cfg.Sort.Reverse, p.logger).Sort(mirrors, now)

	if limit := p.cfg.Output.Limit; limit > 0 {
		if len(mirrors) < limit {
			p.logger.Warn("fewer mirrors than limit",
				"matched", len(mirrors), "limit", limit)
		} else {
			mirrors = mirrors[:limit]
		}
	}

	p.logger.Debug("pipeline complete",
		"advertised", total, "selected", len(mirrors))

	return &Result{
		Mirrors:   mirrors,
		Total:     total,
		FetchedAt: now,
	}, nil
}

// Fetch downloads the raw status feed without filtering or sorting. The
// countries listing works on the unfiltered feed.
func (p *Pipeline) Fetch(ctx context.Context) (*mirror.Status, error) {
	return p.client.Fetch(ctx)
}

// Summary renders the active filter, sort, and limit settings as a compact
// one-line string for the generated-list header.
func Summary(cfg *config.Config) string {
	var parts []string

	if len(cfg.Filter.Countries) > 0 {
		parts = append(parts, "countries="+strings.Join(cfg.Filter.Countries, ","))
	}
	if len(cfg.Filter.Protocols) > 0 {
		parts = append(parts, "protocols="+strings.Join(cfg.Filter.Protocols, ","))
	}
	if cfg.Filter.MaxAgeHours > 0 {
		parts = append(parts, fmt.Sprintf("max_age=%gh", cfg.Filter.MaxAgeHours))
	}
	if cfg.Filter.Match != "" {
		parts = append(parts, "match="+cfg.Filter.Match)
	}
	if cfg.Filter.NoMatch != "" {
		parts = append(parts, "nomatch="+cfg.Filter.NoMatch)
	}
	for _, b := range []struct {
		set  bool
		name string
	}{
		{cfg.Filter.Complete, "complete"},
		{cfg.Filter.Active, "active"},
		{cfg.Filter.IPv4, "ipv4"},
		{cfg.Filter.IPv6, "ipv6"},
		{cfg.Filter.ISOs, "isos"},
	} {
		if b.set {
			parts = append(parts, b.name)
		}
	}

	if len(cfg.Sort.Keys) > 0 {
		parts = append(parts, "sort="+strings.Join(cfg.Sort.Keys, ","))
	}
	if cfg.Sort.Reverse {
		parts = append(parts, "reverse")
	}
	if cfg.Output.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit=%d", cfg.Output.Limit))
	}

	if len(parts) == 0 {
		return "defaults"
	}
	return strings.Join(parts, " ")
}
