// Package health serves the watch-mode probe endpoints.
//
// The endpoints share the metrics listener:
//
//   - /healthz: liveness, 200 while the process runs
//   - /readyz: readiness, 200 when every registered check passes, else 503
//   - /version: build information
//
// Components register checks:
//
//	checker := health.New(0)
//	checker.RegisterCheck("watcher", func(ctx context.Context) error {
//	    if !fw.Running() {
//	        return errors.New("watcher not running")
//	    }
//	    return nil
//	})
//	health.Register(mux, checker, version)
package health
