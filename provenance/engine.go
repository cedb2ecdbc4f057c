/*
engine.go - Engine construction and configuration

PURPOSE:
  Wires the domain operations over a single ledger.Ledger. Everything the
  operations need beyond their arguments - key namespaces, default limits,
  the logger for discarded notification failures - is injected here at
  construction. No ambient globals.

STATELESSNESS:
  The Engine holds no entity state. Every operation re-reads what it needs
  from the ledger, so read-modify-write races are arbitrated entirely by
  the ledger's own concurrency control.

SEE ALSO:
  - product.go, quality.go, notification.go, query.go, analytics.go
*/
package provenance

import (
	"io"
	"log"

	"github.com/warp/provenance-engine/ledger"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config carries the engine's operating parameters. Zero values fall back
// to the defaults below.
type Config struct {
	// Key namespaces. Kept configurable so multiple engines can share one
	// ledger without colliding.
	ProductNamespace      string
	QualityNamespace      string
	NotificationNamespace string

	// DefaultNotificationLimit caps Notifications listings when the caller
	// passes no limit.
	DefaultNotificationLimit int

	// Logger receives discarded notification-emit failures. Nil means a
	// default stderr logger.
	Logger *log.Logger
}

const (
	defaultProductNamespace      = "product:"
	defaultQualityNamespace      = "quality:"
	defaultNotificationNamespace = "notification:"
	defaultNotificationLimit     = 50
)

func (c Config) withDefaults() Config {
	if c.ProductNamespace == "" {
		c.ProductNamespace = defaultProductNamespace
	}
	if c.QualityNamespace == "" {
		c.QualityNamespace = defaultQualityNamespace
	}
	if c.NotificationNamespace == "" {
		c.NotificationNamespace = defaultNotificationNamespace
	}
	if c.DefaultNotificationLimit <= 0 {
		c.DefaultNotificationLimit = defaultNotificationLimit
	}
	if c.Logger == nil {
		c.Logger = log.New(log.Writer(), "[Engine] ", log.LstdFlags)
	}
	return c
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine exposes the supply-chain operations over a ledger.
type Engine struct {
	ledger ledger.Ledger
	cfg    Config
}

// New creates an engine over the given ledger.
func New(l ledger.Ledger, cfg Config) *Engine {
	return &Engine{ledger: l, cfg: cfg.withDefaults()}
}

// NewQuiet is New with engine logging suppressed. Used in tests that
// deliberately provoke discarded notification failures.
func NewQuiet(l ledger.Ledger, cfg Config) *Engine {
	cfg.Logger = log.New(io.Discard, "", 0)
	return New(l, cfg)
}

func (e *Engine) productKey(id string) string {
	return e.cfg.ProductNamespace + id
}

// qualityKey combines product id and the write instant so that multiple
// records for one product never collide. The stamp id is appended as a
// final uniqueness guard for instants that coincide.
func (e *Engine) qualityKey(productID string, stamp EventStamp) string {
	return e.cfg.QualityNamespace + productID + ":" + stamp.At + ":" + stamp.ID
}

// qualityRange returns the scan bounds covering every quality record of a
// product. ';' is the next rune after ':' so the range is tight for plain
// ids. Ids that themselves contain ':' overscan into neighboring ids; the
// listing resolves ownership from the stored productId.
func (e *Engine) qualityRange(productID string) (string, string) {
	prefix := e.cfg.QualityNamespace + productID
	return prefix + ":", prefix + ";"
}

func (e *Engine) notificationKey(id string) string {
	return e.cfg.NotificationNamespace + id
}
