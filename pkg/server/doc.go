// Package server serves the watch-mode observability endpoints.
//
// # Routes
//
//	<metrics path>  Prometheus exposition (default /metrics)
//	/healthz        liveness, always 200 while the process serves
//	/readyz         readiness, 503 when a registered check fails
//	/version        build version
//
// # Usage
//
//	checker := health.New(0)
//	checker.RegisterCheck("watcher", watcherCheck)
//
//	srv := server.NewServer(&cfg.Telemetry.Metrics, collector, checker, version, logger)
//	go func() {
//	    if err := srv.Start(ctx); err != nil {
//	        logger.Error("metrics server failed", "error", err)
//	    }
//	}()
//
// Start blocks until ctx is canceled and then shuts the listener down
// within ShutdownTimeout. The server never terminates the process on its
// own; signal handling belongs to the command.
package server
