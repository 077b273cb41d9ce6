// Package shutdown coordinates graceful termination of the portal.
//
// A Handler waits for SIGINT/SIGTERM or for its context to end, then runs
// the registered hooks in reverse registration order under one deadline:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
