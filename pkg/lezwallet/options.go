package lezwallet

import (
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/logging"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/metrics"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/ownership"
)

type options struct {
	logger  logging.Logger
	metrics *metrics.Metrics
	ledger  *ownership.Ledger
}

// Option configures a Session.
type Option func(*options)

// WithLogger routes session logs to l. The default is logging.New(nil).
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records engine calls, validation failures and live allocations
// in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLedger shares l between sessions so allocation counts can be read from
// outside. Each session otherwise gets its own ledger.
func WithLedger(l *ownership.Ledger) Option {
	return func(o *options) { o.ledger = l }
}
