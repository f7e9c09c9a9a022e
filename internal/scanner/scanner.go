package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/certsight-app/cs-agent/internal/certinfo"
)

// Checker runs a single certificate check. Satisfied by
// *certinfo.Checker.
type Checker interface {
	Check(ctx context.Context, input string) (certinfo.Summary, error)
}

// Scanner fans certificate checks out over a bounded number of
// goroutines. The checks themselves are stateless, so one Scanner serves
// arbitrarily many ScanAll calls.
type Scanner struct {
	checker     Checker
	logger      *zap.Logger
	concurrency int
	retries     int
}

// New creates a Scanner. retries is the number of additional attempts
// per target on top of the first; the certinfo core itself never
// retries.
func New(checker Checker, concurrency, retries int, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scanner{
		checker:     checker,
		logger:      logger,
		concurrency: concurrency,
		retries:     retries,
	}
}

// ScanAll checks all targets concurrently and returns one Result per
// target, index-aligned with the input. A failing target never aborts
// the batch; its Result carries the error instead.
func (s *Scanner) ScanAll(ctx context.Context, targets []string) []Result {
	results := make([]Result, len(targets))
	var wg sync.WaitGroup

	sem := make(chan struct{}, s.concurrency)

	for i, target := range targets {
		wg.Add(1)
		go func(idx int, input string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = Result{
					Input:     input,
					Err:       ctx.Err(),
					CheckedAt: time.Now().UTC(),
				}
				return
			}

			results[idx] = s.scan(ctx, input)
		}(i, target)
	}

	wg.Wait()
	return results
}

// scan checks one target, retrying transient failures with a constant
// backoff when the Scanner is configured with retries.
func (s *Scanner) scan(ctx context.Context, input string) (result Result) {
	start := time.Now()
	result = Result{Input: input, CheckedAt: start.UTC()}
	defer func() { result.Duration = time.Since(start) }()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	operation := func() error {
		summary, err := s.checker.Check(ctx, input)
		if err != nil {
			// Malformed input and unparseable timestamps do not get
			// better on retry.
			switch certinfo.Kind(err) {
			case certinfo.KindInvalidTarget, certinfo.KindTimestampParse:
				return backoff.Permanent(err)
			}
			return err
		}
		result.Summary = &summary
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), uint64(s.retries)),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		result.Err = err
		s.logger.Debug("check failed",
			zap.String("target", input),
			zap.String("kind", certinfo.Kind(err)),
			zap.Error(err),
		)
		return result
	}

	s.logger.Debug("check successful",
		zap.String("target", input),
		zap.String("subject_cn", result.Summary.Subject["CN"]),
		zap.String("expire_date", result.Summary.ExpireDate),
	)
	return result
}
