// Package jobs holds the long running services of the process and the
// supervisor tree that restarts them.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Tree has two branches so a crashing job never takes the API down.
type Tree struct {
	root *suture.Supervisor
	jobs *suture.Supervisor
	api  *suture.Supervisor
}

func NewTree(log *slog.Logger, shutdownTimeout time.Duration) *Tree {
	handler := &sutureslog.Handler{Logger: log}
	spec := suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          shutdownTimeout,
	}
	childSpec := spec
	childSpec.EventHook = nil

	root := suture.New("cinetrack", spec)
	jobs := suture.New("jobs", childSpec)
	api := suture.New("api", childSpec)
	root.Add(jobs)
	root.Add(api)
	return &Tree{root: root, jobs: jobs, api: api}
}

func (t *Tree) AddJob(svc suture.Service) suture.ServiceToken {
	return t.jobs.Add(svc)
}

func (t *Tree) AddAPI(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve blocks until ctx is canceled and every service stopped.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}
