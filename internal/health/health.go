package health

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"

	StoreConnected = "connected"

	ConsumerConsuming  = "consuming"
	ConsumerNotRunning = "not running"
)

// StorePinger is satisfied by any store that can verify its connection
type StorePinger interface {
	Ping(ctx context.Context) error
}

// LivenessReader reports whether the consumer loop is running
type LivenessReader interface {
	IsConsuming() bool
}

// Report is the outcome of one health probe
type Report struct {
	Status   string
	Store    string
	Consumer string
}

// Healthy reports whether every dependency is ok
func (r Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// Evaluate builds a report from the current dependency state
func Evaluate(storeErr error, consuming bool) Report {
	report := Report{
		Status:   StatusHealthy,
		Store:    StoreConnected,
		Consumer: ConsumerConsuming,
	}

	if storeErr != nil {
		report.Status = StatusDegraded
		report.Store = "error: " + storeErr.Error()
	}
	if !consuming {
		report.Status = StatusDegraded
		report.Consumer = ConsumerNotRunning
	}

	return report
}

// Aggregator computes the management service health on every probe
type Aggregator struct {
	store    StorePinger
	liveness LivenessReader
	timeout  time.Duration
	log      *zap.Logger
}

// NewAggregator creates a new health aggregator. timeout bounds the store ping.
func NewAggregator(store StorePinger, liveness LivenessReader, timeout time.Duration, log *zap.Logger) *Aggregator {
	return &Aggregator{
		store:    store,
		liveness: liveness,
		timeout:  timeout,
		log:      log,
	}
}

// Check pings the store and reads the consumer liveness
func (a *Aggregator) Check(ctx context.Context) Report {
	pingCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	storeErr := a.store.Ping(pingCtx)
	report := Evaluate(storeErr, a.liveness.IsConsuming())

	if !report.Healthy() {
		a.log.Warn("Health check degraded",
			zap.String("store", report.Store),
			zap.String("consumer", report.Consumer))
	}

	return report
}
