// Package agent provides the main orchestrator for the CertSight Agent.
package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/certsight-app/cs-agent/internal/certinfo"
	"github.com/certsight-app/cs-agent/internal/config"
	"github.com/certsight-app/cs-agent/internal/metrics"
	"github.com/certsight-app/cs-agent/internal/report"
	"github.com/certsight-app/cs-agent/internal/scanner"
	"github.com/certsight-app/cs-agent/internal/state"
	"github.com/certsight-app/cs-agent/internal/version"
)

// reportRetries bounds retry attempts per result delivery.
const reportRetries = 3

// Agent orchestrates periodic certificate scans, metrics exposition and
// optional result delivery.
type Agent struct {
	config   *config.Config
	scanner  *scanner.Scanner
	reporter *report.Client
	state    *state.Manager
	metrics  *metrics.Metrics
	logger   *zap.Logger
	targets  []string
	lastScan []scanner.Result
}

// New creates an Agent from a validated configuration.
func New(cfg *config.Config, stateManager *state.Manager) (*Agent, error) {
	logger, err := setupLogger(cfg.Agent.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	checker := certinfo.New(cfg.Agent.CheckTimeout, logger)
	s := scanner.New(checker, cfg.Agent.Concurrency, cfg.Agent.Retries, logger)

	var reporter *report.Client
	if cfg.Report.Enabled() {
		reporter = report.New(cfg, logger)
		if id := stateManager.GetAgentID(); id != "" {
			reporter.SetAgentID(id)
		}
	}

	targets := make([]string, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		targets = append(targets, t.Host)
	}

	m := metrics.New()
	m.TargetsConfigured.Set(float64(len(targets)))
	m.AgentInfo.WithLabelValues(version.GetVersion(), cfg.Agent.Name).Set(1)

	return &Agent{
		config:   cfg,
		scanner:  s,
		reporter: reporter,
		state:    stateManager,
		metrics:  m,
		logger:   logger,
		targets:  targets,
	}, nil
}

// Run starts the agent main loop and blocks until ctx is canceled.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("agent starting",
		zap.String("name", a.config.Agent.Name),
		zap.Int("targets", len(a.targets)),
		zap.Duration("scan_interval", a.config.Agent.ScanInterval),
		zap.Bool("reporting", a.reporter != nil),
	)

	if a.config.Metrics.Enabled() {
		a.serveMetrics(ctx)
	}

	// Initial scan so the agent is useful before the first tick.
	if err := a.scanAndReport(ctx); err != nil {
		a.logger.Error("initial scan failed", zap.Error(err))
		// Keep running; the next tick may succeed.
	}

	ticker := time.NewTicker(a.config.Agent.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("agent stopping")
			return ctx.Err()

		case <-ticker.C:
			a.logger.Debug("scan interval triggered")
			if err := a.scanAndReport(ctx); err != nil {
				a.logger.Error("scan failed", zap.Error(err))
			}
		}
	}
}

func (a *Agent) scanAndReport(ctx context.Context) error {
	a.scan(ctx)

	if err := a.deliver(ctx); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}
	return nil
}

// scan runs one round over all targets and updates metrics and state.
func (a *Agent) scan(ctx context.Context) {
	start := time.Now()
	a.logger.Info("starting certificate scan", zap.Int("targets", len(a.targets)))

	results := a.scanner.ScanAll(ctx, a.targets)
	a.lastScan = results
	a.metrics.ScanDuration.Observe(time.Since(start).Seconds())

	successCount := 0
	failCount := 0
	for i := range results {
		a.observe(&results[i])
		if results[i].Success() {
			successCount++
		} else {
			failCount++
		}
	}

	a.state.SetLastScanAt(start.UTC())
	if err := a.state.Save(); err != nil {
		a.logger.Warn("failed to persist state", zap.Error(err))
	}

	a.logger.Info("scan complete",
		zap.Duration("duration", time.Since(start)),
		zap.Int("success", successCount),
		zap.Int("failed", failCount),
	)
}

// observe records one result's metrics and logs its outcome.
func (a *Agent) observe(r *scanner.Result) {
	a.metrics.CheckDuration.Observe(r.Duration.Seconds())

	if !r.Success() {
		a.metrics.CheckTotal.WithLabelValues(r.ErrorKind()).Inc()
		a.metrics.TargetUp.WithLabelValues(r.Input).Set(0)
		a.logger.Warn("target check failed",
			zap.String("target", r.Input),
			zap.String("kind", r.ErrorKind()),
			zap.Error(r.Err),
		)
		return
	}

	a.metrics.CheckTotal.WithLabelValues("success").Inc()
	a.metrics.TargetUp.WithLabelValues(r.Input).Set(1)

	if expiry, err := time.ParseInLocation(certinfo.CanonicalTimeLayout, r.Summary.ExpireDate, time.Local); err == nil {
		a.metrics.ExpirySeconds.WithLabelValues(r.Input).Set(float64(expiry.Unix()))
		a.metrics.DaysUntilExpiry.WithLabelValues(r.Input).Set(time.Until(expiry).Hours() / 24)
	}

	a.logger.Debug("target check ok",
		zap.String("target", r.Input),
		zap.String("subject_cn", r.Summary.Subject["CN"]),
		zap.String("expire_date", r.Summary.ExpireDate),
	)
}

// deliver sends the last scan round to the ingest endpoint, retrying
// transient delivery failures with exponential backoff.
func (a *Agent) deliver(ctx context.Context) error {
	if a.reporter == nil || len(a.lastScan) == 0 {
		return nil
	}

	start := time.Now()
	var resp *report.Response

	operation := func() error {
		var err error
		resp, err = a.reporter.Send(ctx, a.lastScan)
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), reportRetries),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		a.metrics.ReportTotal.WithLabelValues("error").Inc()
		return err
	}
	a.metrics.ReportTotal.WithLabelValues("success").Inc()

	if id := a.reporter.GetAgentID(); id != "" && id != a.state.GetAgentID() {
		a.state.SetAgentID(id)
		if err := a.state.Save(); err != nil {
			a.logger.Warn("failed to persist agent id", zap.Error(err))
		}
	}

	a.logger.Info("report delivered",
		zap.Duration("duration", time.Since(start)),
		zap.Int("accepted", resp.Accepted),
		zap.String("agent_id", resp.AgentID),
	)
	return nil
}

// serveMetrics starts the Prometheus listener and shuts it down when ctx
// is canceled.
func (a *Agent) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())

	srv := &http.Server{
		Addr:              a.config.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("metrics listener starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics listener failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// setupLogger creates a configured zap logger
func setupLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapLevel,
	)

	return zap.New(core), nil
}
