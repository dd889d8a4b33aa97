package main

import (
	"context"
	"net"
	"net/http"

	"cinetrack/proj/internal/jobs"
	"cinetrack/proj/internal/lib/logger"
)

func (app *Application) newServer() *http.Server {
	return &http.Server{
		Addr:         net.JoinHostPort(app.cfg.Server.Host, app.cfg.Server.Port),
		Handler:      app.routes(),
		ReadTimeout:  app.cfg.Server.ReadTimeout,
		WriteTimeout: app.cfg.Server.WriteTimeout,
		IdleTimeout:  app.cfg.Server.IdleTimeout,
		ErrorLog:     logger.LogAdapter(app.log),
	}
}

// serve runs the HTTP server until ctx is cancelled. onShutdown runs once the
// server stopped accepting requests, to drain in-flight background work.
func (app *Application) serve(ctx context.Context, tree *jobs.Tree, onShutdown func(ctx context.Context) error) error {
	tree.AddJob(app.limiter)
	tree.AddAPI(jobs.NewHTTPService(app.log, app.newServer(), app.cfg.Server.ShutdownTimeout, onShutdown))
	return tree.Serve(ctx)
}
