// Package filter selects mirrors according to the effective configuration.
// A [Criteria] value is compiled once from the raw settings and then applied
// to every mirror; criteria that were not configured do not restrict.
package filter

import (
	"regexp"
	"strings"
	"time"

	"github.com/davoli/specchio/internal/errors"
	"github.com/davoli/specchio/internal/mirror"
)

// Options are the raw filtering settings from flags or the config file.
type Options struct {
	// Countries restricts mirrors to the given countries. Entries may be
	// country names or ISO codes and are matched case-insensitively.
	Countries []string
	// Protocols restricts mirrors to the given protocols.
	Protocols []string
	// MaxAge drops mirrors whose last sync is further in the past.
	// Zero means no age limit.
	MaxAge time.Duration
	// Match keeps only mirrors whose URL matches this expression. The
	// expression is anchored at the start of the URL.
	Match string
	// NoMatch drops mirrors whose URL matches this expression. The
	// expression is anchored at the start of the URL.
	NoMatch string
	// Complete keeps only fully synced mirrors.
	Complete bool
	// Active keeps only mirrors flagged active.
	Active bool
	// IPv4 keeps only mirrors reachable over IPv4.
	IPv4 bool
	// IPv6 keeps only mirrors reachable over IPv6.
	IPv6 bool
	// ISOs keeps only mirrors that host installation images.
	ISOs bool
}

// Criteria is a compiled, ready-to-apply mirror filter.
type Criteria struct {
	countries map[string]bool
	protocols map[string]bool
	maxAge    time.Duration
	match     *regexp.Regexp
	noMatch   *regexp.Regexp
	complete  bool
	active    bool
	ipv4      bool
	ipv6      bool
	isos      bool
}

// New compiles the given options into a Criteria. Invalid regular
// expressions are reported as validation errors.
func New(opts Options) (*Criteria, error) {
	c := &Criteria{
		maxAge:   opts.MaxAge,
		complete: opts.Complete,
		active:   opts.Active,
		ipv4:     opts.IPv4,
		ipv6:     opts.IPv6,
		isos:     opts.ISOs,
	}

	if len(opts.Countries) > 0 {
		c.countries = make(map[string]bool, len(opts.Countries))
		for _, country := range opts.Countries {
			c.countries[strings.ToLower(country)] = true
		}
	}

	if len(opts.Protocols) > 0 {
		c.protocols = make(map[string]bool, len(opts.Protocols))
		for _, protocol := range opts.Protocols {
			c.protocols[strings.ToLower(protocol)] = true
		}
	}

	var err error
	if c.match, err = compileAnchored(opts.Match); err != nil {
		return nil, errors.NewValidationError("invalid regular expression").
			WithField("filter.match").
			WithValue(opts.Match).
			WithCause(err)
	}
	if c.noMatch, err = compileAnchored(opts.NoMatch); err != nil {
		return nil, errors.NewValidationError("invalid regular expression").
			WithField("filter.nomatch").
			WithValue(opts.NoMatch).
			WithCause(err)
	}

	return c, nil
}

// compileAnchored compiles pattern anchored at the start of the subject, so
// "https" matches "https://..." but not "rsync://https.example".
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile("^(?:" + pattern + ")")
}

// Match reports whether the mirror satisfies all configured criteria.
// Ages are measured relative to now.
func (c *Criteria) Match(m *mirror.Mirror, now time.Time) bool {
	if c.countries != nil {
		matchCountry := m.Country != "" && c.countries[strings.ToLower(m.Country)]
		matchCode := m.CountryCode != "" && c.countries[strings.ToLower(m.CountryCode)]
		if !matchCountry && !matchCode {
			return false
		}
	}

	if c.protocols != nil && !c.protocols[strings.ToLower(m.Protocol)] {
		return false
	}

	if c.maxAge > 0 && m.Age(now) > c.maxAge {
		return false
	}

	if c.match != nil && !c.match.MatchString(m.URL) {
		return false
	}

	if c.noMatch != nil && c.noMatch.MatchString(m.URL) {
		return false
	}

	if c.complete && completionPct(m) < 1 {
		return false
	}

	if c.active && !boolValue(m.Active) {
		return false
	}

	if c.ipv4 && !boolValue(m.IPv4) {
		return false
	}

	if c.ipv6 && !boolValue(m.IPv6) {
		return false
	}

	if c.isos && !boolValue(m.ISOs) {
		return false
	}

	return true
}

// Apply returns the mirrors that satisfy the criteria, in their original
// order.
func (c *Criteria) Apply(mirrors []mirror.Mirror, now time.Time) []mirror.Mirror {
	matched := make([]mirror.Mirror, 0, len(mirrors))
	for i := range mirrors {
		if c.Match(&mirrors[i], now) {
			matched = append(matched, mirrors[i])
		}
	}
	return matched
}

// completionPct treats missing completion data as 0, so unchecked mirrors
// never count as complete.
func completionPct(m *mirror.Mirror) float64 {
	if m.CompletionPct == nil {
		return 0
	}
	return *m.CompletionPct
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
