package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"poolSnapshot/internal/chain"
	"poolSnapshot/internal/metrics"
	"poolSnapshot/internal/model"
	"poolSnapshot/internal/snapshot"
	"poolSnapshot/internal/storage"
)

// PoolFetcher reads raw pool state from the node.
type PoolFetcher interface {
	PoolState(ctx context.Context, method, address string, options any) (model.RawResult, error)
}

// Job describes one protocol pass: where its addresses come from and how to fetch them.
type Job struct {
	Protocol    model.Protocol
	AddressFile string
	Method      string
	Options     any
}

// RunConfig holds runtime settings for the collector.
type RunConfig struct {
	Jobs        []Job
	Concurrency int
}

// Counts tallies per-pool outcomes for one protocol.
type Counts struct {
	Addresses   int
	Written     int
	FetchFailed int
	WriteFailed int
}

// Summary reports what a run did. Failures in it are informational.
type Summary struct {
	Protocols map[model.Protocol]*Counts
	Duration  time.Duration
}

func (s Summary) Total() Counts {
	var total Counts
	for _, c := range s.Protocols {
		total.Addresses += c.Addresses
		total.Written += c.Written
		total.FetchFailed += c.FetchFailed
		total.WriteFailed += c.WriteFailed
	}
	return total
}

// Runner fetches every configured pool and writes its snapshot to storage.
type Runner struct {
	cfg     RunConfig
	fetcher PoolFetcher
	storage storage.Storage
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	summary Summary
}

// NewRunner builds a Runner with its dependencies. m may be nil.
func NewRunner(cfg RunConfig, fetcher PoolFetcher, sink storage.Storage, logger *zap.Logger, m *metrics.Metrics) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Runner{
		cfg:     cfg,
		fetcher: fetcher,
		storage: sink,
		logger:  logger,
		metrics: m,
	}
}

// Run processes each job in order. A failed pool is logged and skipped; only a
// missing dependency or cancellation makes Run return an error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r.fetcher == nil {
		return Summary{}, fmt.Errorf("pool fetcher is nil")
	}
	if r.storage == nil {
		return Summary{}, fmt.Errorf("storage is nil")
	}
	for _, job := range r.cfg.Jobs {
		if !job.Protocol.Valid() {
			return Summary{}, fmt.Errorf("unknown protocol %q for %s", job.Protocol, job.AddressFile)
		}
	}

	start := time.Now()
	r.summary = Summary{Protocols: make(map[model.Protocol]*Counts, len(r.cfg.Jobs))}

	var runErr error
	for _, job := range r.cfg.Jobs {
		if err := r.runJob(ctx, job); err != nil {
			runErr = err
			break
		}
	}

	r.summary.Duration = time.Since(start)
	r.metrics.ObserveRun(r.summary.Duration)

	total := r.summary.Total()
	r.logger.Info("run complete",
		zap.Int("addresses", total.Addresses),
		zap.Int("written", total.Written),
		zap.Int("fetch_failed", total.FetchFailed),
		zap.Int("write_failed", total.WriteFailed),
		zap.Duration("duration", r.summary.Duration),
	)
	return r.summary, runErr
}

func (r *Runner) runJob(ctx context.Context, job Job) error {
	counts := &Counts{}
	r.summary.Protocols[job.Protocol] = counts

	addresses, err := ReadAddressFile(job.AddressFile)
	if err != nil {
		r.logger.Warn("address source unavailable",
			zap.String("protocol", string(job.Protocol)),
			zap.String("path", job.AddressFile),
			zap.Error(err),
		)
		return nil
	}
	counts.Addresses = len(addresses)

	r.logger.Info("protocol start",
		zap.String("protocol", string(job.Protocol)),
		zap.String("path", job.AddressFile),
		zap.Int("addresses", len(addresses)),
	)

	if r.cfg.Concurrency == 1 {
		for _, address := range addresses {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.processPool(ctx, job, address, counts)
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(r.cfg.Concurrency)
	for _, address := range addresses {
		if ctx.Err() != nil {
			break
		}
		address := address
		g.Go(func() error {
			r.processPool(ctx, job, address, counts)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

func (r *Runner) processPool(ctx context.Context, job Job, address string, counts *Counts) {
	protocol := job.Protocol.Prefix()

	raw, err := r.fetcher.PoolState(ctx, job.Method, address, job.Options)
	if err != nil {
		r.logFetchError(job, address, err)
		r.metrics.RecordRPCError(string(chain.Classify(err)))
		r.metrics.RecordSnapshot(protocol, metrics.OutcomeFetchFailed)
		r.count(func() { counts.FetchFailed++ })
		return
	}

	snap := snapshot.AssembleResult(job.Protocol, raw)
	if store, ok := snap.Pool.Store.(model.V3Store); ok && store.Slot0.IsZero() {
		r.logger.Debug("slot0 absent", zap.String("address", address))
	}
	r.metrics.SetStateBlock(protocol, snap.StateBlock)

	record := model.SnapshotRecord{Protocol: job.Protocol, Address: address, Snapshot: snap}
	if err := r.storage.PutSnapshot(ctx, record); err != nil {
		r.logger.Error("write snapshot failed",
			zap.String("protocol", string(job.Protocol)),
			zap.String("address", address),
			zap.Error(err),
		)
		r.metrics.RecordSnapshot(protocol, metrics.OutcomeWriteFailed)
		r.count(func() { counts.WriteFailed++ })
		return
	}

	r.logger.Debug("snapshot written",
		zap.String("protocol", string(job.Protocol)),
		zap.String("address", address),
		zap.String("store_version", snap.Pool.Store.StoreVersion()),
		zap.Uint64("state_block", snap.StateBlock),
	)
	r.metrics.RecordSnapshot(protocol, metrics.OutcomeWritten)
	r.count(func() { counts.Written++ })
}

func (r *Runner) count(fn func()) {
	r.mu.Lock()
	fn()
	r.mu.Unlock()
}

func (r *Runner) logFetchError(job Job, address string, err error) {
	fields := []zap.Field{
		zap.String("protocol", string(job.Protocol)),
		zap.String("address", address),
		zap.String("method", job.Method),
		zap.Error(err),
	}

	switch chain.Classify(err) {
	case chain.ErrorHTTPStatus:
		status, body, _ := chain.HTTPStatus(err)
		r.logger.Warn("non-success response", append(fields, zap.Int("status", status), zap.String("body", body))...)
	case chain.ErrorMalformed:
		r.logger.Error("malformed response", fields...)
	case chain.ErrorRPC:
		code, _ := chain.RPCErrorCode(err)
		r.logger.Warn("rpc error", append(fields, zap.Int("code", code))...)
	case chain.ErrorCanceled:
		r.logger.Info("fetch canceled", fields...)
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warn("fetch timed out", fields...)
			return
		}
		r.logger.Warn("transport failure", fields...)
	}
}
