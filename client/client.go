package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/gaborage/go-conduit/config"
	"github.com/gaborage/go-conduit/logger"
	"github.com/gaborage/go-conduit/resolver"
)

// state tracks the client lifecycle. There is no transition out of closed.
type state int

const (
	stateConstructed state = iota
	stateOpening
	stateReady
	stateClosed
)

// BasicAuth contains basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// Client issues requests against one backend service. It owns the merged
// dispatch policy, the host state (static or discovered), the transport
// handle shared by all its requests, and the domain-error registry.
type Client struct {
	cfg        *config.Config
	classifier *classifier
	registry   *Registry
	log        logger.Logger
	limiter    *rate.Limiter

	host    string // static mode; empty when dynamic
	service string
	env     string
	prefix  string
	cache   *resolver.Cache // dynamic mode; nil when static

	transport *nethttp.Client
	headers   map[string]string
	auth      *BasicAuth

	mu        sync.Mutex
	state     state
	closeOnce sync.Once

	callCount int64
}

// New constructs a client in static mode (explicit host) or dynamic mode
// (service name plus env). The merged config is validated here; a client
// that constructs will not fail later on policy grounds.
func New(opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	service, prefix, templateCfg, err := applyTemplate(o)
	if err != nil {
		return nil, err
	}

	if o.host == "" && (service == "" || o.env == "") {
		return nil, config.NewMissingFieldError("host", "provide a host, or a service name together with an env")
	}

	instanceCfg, err := settingsConfig(o.settings)
	if err != nil {
		return nil, err
	}

	cfg := config.Merge(config.Merge(config.Default(), templateCfg), instanceCfg)
	config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	log := o.log
	if log == nil {
		log = logger.New("disabled", false)
	}

	roundTripper := o.transport
	if roundTripper == nil {
		roundTripper = &nethttp.Transport{}
	}

	c := &Client{
		cfg:        cfg,
		classifier: newClassifier(cfg),
		registry:   NewRegistry(),
		log:        log,
		host:       o.host,
		service:    service,
		env:        o.env,
		prefix:     prefix,
		transport:  &nethttp.Client{Transport: roundTripper},
		headers:    o.headers,
		auth:       o.auth,
	}

	if c.host == "" {
		res := o.res
		if res == nil {
			res = resolver.NewHTTP(o.env)
		}
		var cacheOpts []resolver.CacheOption
		if o.clock != nil {
			cacheOpts = append(cacheOpts, resolver.WithClock(o.clock))
		}
		c.cache = resolver.NewCache(res, service, cacheOpts...)
	}

	if cfg.Rate.Enabled() {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.Rate.Limit), cfg.Rate.Burst)
	}

	for _, tag := range o.tags {
		c.registry.RegisterTag(tag)
	}
	for tag, factory := range o.factories {
		c.registry.Register(tag, factory)
	}

	return c, nil
}

// Connect constructs a client and opens it in one step.
func Connect(ctx context.Context, opts ...Option) (*Client, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Open(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// applyTemplate folds template identity fields into the instance values.
// An identity field declared at both levels is ambiguous and fails.
func applyTemplate(o *options) (service, prefix string, defaults *config.Config, err error) {
	service, prefix = o.service, o.prefix
	if o.template == nil {
		return service, prefix, nil, nil
	}

	if o.template.ServiceName != "" {
		if o.serviceSet {
			return "", "", nil, config.NewAmbiguousFieldError("service_name")
		}
		service = o.template.ServiceName
	}
	if o.template.Prefix != "" {
		if o.prefixSet {
			return "", "", nil, config.NewAmbiguousFieldError("prefix")
		}
		prefix = o.template.Prefix
	}

	return service, prefix, o.template.Defaults, nil
}

// settingsConfig turns the instance settings into a Config. Only a
// key-value map or an already-built config are recognized shapes.
func settingsConfig(settings any) (*config.Config, error) {
	if settings == nil {
		return nil, nil
	}

	switch v := settings.(type) {
	case map[string]any:
		// Overlay, not FromMap: the map must stay sparse so unmentioned
		// fields inherit template and library defaults during the merge.
		return config.Overlay(v)
	case *config.Config:
		return v.Clone(), nil
	default:
		return nil, config.NewInvalidFieldError(
			"settings",
			fmt.Sprintf("unrecognized settings shape %T", settings),
			[]string{"map[string]any", "*config.Config"},
		)
	}
}

// Open transitions the client to ready, pre-resolving the service host in
// dynamic mode. A resolution failure releases the transport and closes the
// client; it never reaches ready.
func (c *Client) Open(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case stateReady:
		c.mu.Unlock()
		return nil
	case stateClosed:
		c.mu.Unlock()
		return NewValidationError("client is closed", "state")
	case stateOpening:
		c.mu.Unlock()
		return NewValidationError("client is already opening", "state")
	case stateConstructed:
	}
	c.state = stateOpening
	c.mu.Unlock()

	if c.cache != nil {
		host, err := c.cache.Host(ctx)
		if err != nil {
			_ = c.Close()
			return err
		}
		c.log.Debug().
			Str("service", c.service).
			Str("env", c.env).
			Str("host", host).
			Msg("resolved service host")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateClosed {
		return NewValidationError("client is closed", "state")
	}
	c.state = stateReady
	return nil
}

// Close releases the transport handle. It is idempotent and safe to call
// from any state, including after a failed Open.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = stateClosed
		c.mu.Unlock()
		c.transport.CloseIdleConnections()
	})
	return nil
}

// checkReady gates the verb surface on the lifecycle state.
func (c *Client) checkReady() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateReady:
		return nil
	case stateClosed:
		return NewValidationError("client is closed", "state")
	default:
		return NewValidationError("client is not open", "state")
	}
}

// hostFor returns the base host, consulting the resolver cache in dynamic
// mode. A static client never contacts the resolver.
func (c *Client) hostFor(ctx context.Context) (string, error) {
	if c.cache == nil {
		return c.host, nil
	}
	return c.cache.Host(ctx)
}

// Get performs a GET request against path
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, path, opts...)
}

// Post performs a POST request against path
func (c *Client) Post(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, path, opts...)
}

// Put performs a PUT request against path
func (c *Client) Put(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPut, path, opts...)
}

// Delete performs a DELETE request against path
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, path, opts...)
}

// Head performs a HEAD request against path
func (c *Client) Head(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, nethttp.MethodHead, path, opts...)
}

// Do performs a request with the specified method
func (c *Client) Do(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error) {
	return c.issue(ctx, method, path, opts...)
}

// RegisterError maps a domain-error tag to a caller-supplied factory.
func (c *Client) RegisterError(tag string, factory DomainErrorFactory) {
	c.registry.Register(tag, factory)
}

// RegisterErrorTag maps a domain-error tag to the standard DomainError
// shape.
func (c *Client) RegisterErrorTag(tag string) {
	c.registry.RegisterTag(tag)
}

// InvalidateHost drops the cached host of a dynamic client so the next
// request resolves again. A no-op in static mode.
func (c *Client) InvalidateHost() {
	if c.cache != nil {
		c.cache.Invalidate()
	}
}
