package attmap

import (
	"github.com/cs-au-dk/attmap/utils"
	"github.com/hashicorp/go-hclog"
)

// DefaultMaxDepth bounds the nesting of a single inserted value.
const DefaultMaxDepth = 1000

// PathExpander rewrites Text values retrieved from path-expanding maps.
type PathExpander func(string) string

// config is shared by a map and every map nested in it. It is fixed at
// construction.
type config struct {
	logger      hclog.Logger
	comparer    Comparer
	expander    PathExpander
	excludeEq   func(key string) bool
	excludeRepr func(key string) bool
	maxDepth    int
	color       bool
}

func excludeNothing(string) bool { return false }

func defaultConfig() *config {
	return &config{
		logger:      hclog.NewNullLogger(),
		comparer:    DefaultComparer,
		expander:    utils.ExpandPath,
		excludeEq:   excludeNothing,
		excludeRepr: excludeNothing,
		maxDepth:    DefaultMaxDepth,
	}
}

// Option configures a map at construction.
type Option func(*config)

// WithLogger sets the sink for debug diagnostics, such as deletes of absent
// keys. The default discards everything.
func WithLogger(l hclog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithComparer replaces the value comparison used by Equal.
func WithComparer(cmp Comparer) Option {
	return func(c *config) {
		if cmp != nil {
			c.comparer = cmp
		}
	}
}

// WithPathExpander replaces the transform path-expanding maps apply to Text.
// The default expands environment variables and a leading ~.
func WithPathExpander(e PathExpander) Option {
	return func(c *config) {
		if e != nil {
			c.expander = e
		}
	}
}

// WithExcludeFromEq makes Equal skip keys for which f holds.
func WithExcludeFromEq(f func(key string) bool) Option {
	return func(c *config) {
		if f != nil {
			c.excludeEq = f
		}
	}
}

// WithExcludeFromRepr hides keys for which f holds from rendered output.
func WithExcludeFromRepr(f func(key string) bool) Option {
	return func(c *config) {
		if f != nil {
			c.excludeRepr = f
		}
	}
}

func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth >= 0 {
			c.maxDepth = depth
		}
	}
}

// WithColor colorizes keys in Render.
func WithColor(enabled bool) Option {
	return func(c *config) {
		c.color = enabled
	}
}
