package client

import (
	nethttp "net/http"

	"github.com/jonboulle/clockwork"

	"github.com/gaborage/go-conduit/config"
	"github.com/gaborage/go-conduit/logger"
	"github.com/gaborage/go-conduit/resolver"
)

// options collects construction arguments before validation.
type options struct {
	host       string
	service    string
	serviceSet bool
	env        string
	prefix     string
	prefixSet  bool
	template   *config.Template
	settings   any
	log        logger.Logger
	res        resolver.ServiceResolver
	transport  nethttp.RoundTripper
	clock      clockwork.Clock
	headers    map[string]string
	auth       *BasicAuth
	tags       []string
	factories  map[string]DomainErrorFactory
}

// Option configures a Client at construction.
type Option func(*options)

// WithHost pins the client to a fixed host, disabling discovery for this
// instance.
func WithHost(host string) Option {
	return func(o *options) {
		o.host = host
	}
}

// WithService names the target service looked up through discovery.
func WithService(name string) Option {
	return func(o *options) {
		o.service = name
		o.serviceSet = true
	}
}

// WithEnv selects the discovery namespace the service is resolved in.
func WithEnv(env string) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithPrefix prepends a URL path prefix to every request path.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
		o.prefixSet = true
	}
}

// WithTemplate applies library-level defaults: the service identity and a
// policy config merged under the instance's own settings. Identity fields
// declared both here and per instance fail construction.
func WithTemplate(t *config.Template) Option {
	return func(o *options) {
		o.template = t
	}
}

// WithSettings supplies the instance policy as either a key-value map
// (map[string]any, nested or dotted keys) or an already-built
// *config.Config. Any other shape fails construction.
func WithSettings(settings any) Option {
	return func(o *options) {
		o.settings = settings
	}
}

// WithConfig supplies an already-built instance policy.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.settings = cfg
	}
}

// WithLogger sets the structured logger. Without one the client stays
// silent.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithResolver overrides the naming-service resolver used in dynamic mode.
func WithResolver(r resolver.ServiceResolver) Option {
	return func(o *options) {
		o.res = r
	}
}

// WithTransport overrides the underlying HTTP transport.
func WithTransport(rt nethttp.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// WithClock injects the clock used for host-cache expiry.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithDefaultHeader adds a header sent with every request.
func WithDefaultHeader(key, value string) Option {
	return func(o *options) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithBasicAuth sets basic authentication credentials applied to every
// request.
func WithBasicAuth(username, password string) Option {
	return func(o *options) {
		o.auth = &BasicAuth{
			Username: username,
			Password: password,
		}
	}
}

// WithDomainTags registers tags raised as the standard DomainError shape.
func WithDomainTags(tags ...string) Option {
	return func(o *options) {
		o.tags = append(o.tags, tags...)
	}
}

// WithDomainError registers a custom factory for tag.
func WithDomainError(tag string, factory DomainErrorFactory) Option {
	return func(o *options) {
		if o.factories == nil {
			o.factories = make(map[string]DomainErrorFactory)
		}
		o.factories[tag] = factory
	}
}
