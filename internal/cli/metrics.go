package cli

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glorpus-work/wikidump/internal/logger"
	"github.com/glorpus-work/wikidump/pkg/download"
)

// startMetrics serves download metrics on addr under /metrics until stop is called.
// An empty addr disables metrics and returns nil metrics.
func startMetrics(addr string) (metrics *download.Metrics, stop func(), err error) {
	if addr == "" {
		return nil, func() {}, nil
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	metrics = download.NewMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Metrics endpoint stopped", logger.Fields{"error": err})
		}
	}()
	logger.Info("Serving metrics", logger.Fields{"addr": listener.Addr().String()})

	stop = func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return metrics, stop, nil
}
