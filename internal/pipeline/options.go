package pipeline

import (
	"time"

	"github.com/davoli/specchio/internal/mirror"
)

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClient replaces the status feed client. Tests point this at an
// httptest server.
func WithClient(client *mirror.Client) Option {
	return func(p *Pipeline) {
		p.client = client
	}
}

// WithNow replaces the reference clock used for age computation.
func WithNow(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}
