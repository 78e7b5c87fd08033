package library

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/justestif/vofo-music/internal/db"
)

const (
	// DefaultRetryInterval is the minimum time between dial attempts after a failure.
	DefaultRetryInterval = 5 * time.Second

	// DefaultDialTimeout bounds a single dial, including migrations.
	DefaultDialTimeout = 30 * time.Second
)

// Store is the persistence backend used by Service.
// It is implemented by *db.DB (PostgreSQL) and *sqlite.Storage.
type Store interface {
	Accounts() db.AccountStore
	Likes() db.LikeStore
	Ping(ctx context.Context) error
	Close() error
}

// DialFunc opens a ready-to-use Store.
type DialFunc func(ctx context.Context) (Store, error)

// Connector owns the process-wide Store handle.
//
// The store is dialed lazily on first use. While dialing fails, callers get
// ErrUnavailable and the service keeps running in degraded mode; a new attempt
// is made at most once per retry interval. A nil DialFunc means no database is
// configured and every call reports ErrNotConfigured.
//
// At most one dial runs at a time. It is detached from the caller's context,
// so a cancelled request neither aborts it nor gets recorded as a failure;
// callers waiting on it give up when their own context is done.
type Connector struct {
	dial          DialFunc
	retryInterval time.Duration
	dialTimeout   time.Duration
	logger        *log.Logger
	now           func() time.Time
	dials         singleflight.Group

	mu          sync.Mutex
	store       Store
	lastErr     error
	lastAttempt time.Time
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithRetryInterval sets the minimum time between failed dial attempts.
func WithRetryInterval(d time.Duration) ConnectorOption {
	return func(c *Connector) {
		c.retryInterval = d
	}
}

// WithDialTimeout bounds each dial attempt.
func WithDialTimeout(d time.Duration) ConnectorOption {
	return func(c *Connector) {
		c.dialTimeout = d
	}
}

// WithLogger sets the logger used to report connection changes.
func WithLogger(logger *log.Logger) ConnectorOption {
	return func(c *Connector) {
		c.logger = logger
	}
}

// NewConnector creates a Connector that opens its store with dial.
func NewConnector(dial DialFunc, opts ...ConnectorOption) *Connector {
	c := &Connector{
		dial:          dial,
		retryInterval: DefaultRetryInterval,
		dialTimeout:   DefaultDialTimeout,
		logger:        log.New(io.Discard),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the store eagerly. The error is informational: a failed
// Connect leaves the Connector usable in degraded mode.
func (c *Connector) Connect(ctx context.Context) error {
	_, err := c.Store(ctx)
	return err
}

// Store returns the connected store, dialing it if necessary.
func (c *Connector) Store(ctx context.Context) (Store, error) {
	if c.dial == nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, ErrNotConfigured)
	}

	if store, err := c.cached(); store != nil || err != nil {
		return store, err
	}

	ch := c.dials.DoChan("dial", func() (any, error) {
		return c.connect(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Store), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}

// cached returns the connected store, or the last dial error while the retry
// interval has not elapsed. Both are nil when a dial should be attempted.
func (c *Connector) cached() (Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store != nil {
		return c.store, nil
	}
	if c.lastErr != nil && c.now().Sub(c.lastAttempt) < c.retryInterval {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, c.lastErr)
	}
	return nil, nil
}

// connect runs one dial and records its outcome. Only one runs at a time.
func (c *Connector) connect(ctx context.Context) (Store, error) {
	if store, err := c.cached(); store != nil || err != nil {
		return store, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()

	attempt := c.now()
	store, err := c.dial(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastAttempt = attempt
	if err != nil {
		c.lastErr = err
		c.logger.Warn("database connection failed", "err", err, "retry_in", c.retryInterval)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if c.lastErr != nil {
		c.logger.Info("database connection restored")
	} else {
		c.logger.Info("database connected")
	}
	c.store = store
	c.lastErr = nil
	return store, nil
}

// Check verifies the store is connected and answering queries.
// It returns nil when healthy, an error wrapping ErrNotConfigured when no
// database is configured, and any other error otherwise.
func (c *Connector) Check(ctx context.Context) error {
	store, err := c.Store(ctx)
	if err != nil {
		return err
	}
	return store.Ping(ctx)
}

// Close releases the store if one was opened.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}
