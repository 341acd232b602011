// Package mirror defines the mirror status feed model and the client that
// downloads it. The feed is the JSON document published by the Arch Linux
// mirror status service; every downstream stage (filtering, sorting, list
// rendering) works on the [Mirror] values decoded here.
package mirror

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/davoli/specchio/internal/errors"
	"github.com/davoli/specchio/internal/logging"
)

// RepoPath is the repository path template appended to every mirror URL.
// Pacman substitutes $repo and $arch itself, so the variables stay literal.
const RepoPath = "$repo/os/$arch"

// Status is the envelope of the mirror status feed.
type Status struct {
	Cutoff         int       `json:"cutoff"`
	LastCheck      time.Time `json:"last_check"`
	NumChecks      int       `json:"num_checks"`
	CheckFrequency int       `json:"check_frequency"`
	URLs           []Mirror  `json:"urls"`
	Version        int       `json:"version"`
}

// Mirror is a single mirror entry from the status feed. Fields that the feed
// reports as null for unchecked or broken mirrors are pointers; a nil value
// means the service has no data, which is distinct from zero.
type Mirror struct {
	URL            string     `json:"url"`
	Protocol       string     `json:"protocol"`
	LastSync       *time.Time `json:"last_sync"`
	CompletionPct  *float64   `json:"completion_pct"`
	Delay          *int       `json:"delay"`
	DurationAvg    *float64   `json:"duration_avg"`
	DurationStddev *float64   `json:"duration_stddev"`
	Score          *float64   `json:"score"`
	Active         *bool      `json:"active"`
	Country        string     `json:"country"`
	CountryCode    string     `json:"country_code"`
	ISOs           *bool      `json:"isos"`
	IPv4           *bool      `json:"ipv4"`
	IPv6           *bool      `json:"ipv6"`
	Details        string     `json:"details"`
}

// Age returns how far behind the mirror is at the given reference time.
// Mirrors that never synced get their age measured from the Unix epoch, so
// they come out ancient and fail any reasonable max-age filter.
func (m *Mirror) Age(now time.Time) time.Duration {
	if m.LastSync == nil {
		return now.Sub(time.Unix(0, 0).UTC())
	}
	return now.Sub(*m.LastSync)
}

// RepoURL returns the mirror's URL with the repository path template
// appended. A missing trailing slash is added first; query and fragment of
// the original URL are preserved.
func (m *Mirror) RepoURL() (string, error) {
	u, err := url.Parse(m.URL)
	if err != nil {
		return "", errors.Wrapf(err, "parsing mirror URL %q", m.URL)
	}

	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.Path += RepoPath
	u.RawPath = ""

	return u.String(), nil
}

// Prepare drops mirrors without a URL so later stages can rely on one being
// present. The order of the remaining mirrors is unchanged.
func Prepare(mirrors []Mirror, logger *logging.Logger) []Mirror {
	if logger == nil {
		logger = logging.NopLogger()
	}

	prepared := make([]Mirror, 0, len(mirrors))
	for _, m := range mirrors {
		if m.URL == "" {
			logger.Warn("skipping mirror without URL")
			continue
		}
		prepared = append(prepared, m)
	}

	return prepared
}

// Country is a country a mirror is hosted in.
type Country struct {
	Name string
	Code string
}

// Countries returns the distinct countries of the given mirrors, sorted by
// name. Mirrors without both a country name and code are ignored.
func Countries(mirrors []Mirror) []Country {
	seen := make(map[Country]bool)
	for _, m := range mirrors {
		if m.Country == "" || m.CountryCode == "" {
			continue
		}
		seen[Country{Name: m.Country, Code: m.CountryCode}] = true
	}

	countries := make([]Country, 0, len(seen))
	for c := range seen {
		countries = append(countries, c)
	}

	sort.Slice(countries, func(i, j int) bool {
		if countries[i].Name != countries[j].Name {
			return countries[i].Name < countries[j].Name
		}
		return countries[i].Code < countries[j].Code
	})

	return countries
}
