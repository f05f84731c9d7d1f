package piezosrv

import (
	"time"

	"github.com/cenkalti/backoff"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/gadamc/nipiezeojenapy/daq"
	"github.com/gadamc/nipiezeojenapy/generichttp"
	"github.com/gadamc/nipiezeojenapy/piezo"
	"github.com/gadamc/nipiezeojenapy/server/middleware/locker"
	"github.com/gadamc/nipiezeojenapy/server/middleware/throttle"
)

// NewSimulator builds a simulator wired the way the config describes the
// bench: each configured read channel loops back to its axis's write
// channel
func NewSimulator(c Config) *daq.Simulator {
	sim := daq.NewSimulator()
	for _, ac := range []piezo.AxisConfig{c.Stage.X, c.Stage.Y, c.Stage.Z} {
		if ac.ReadChannel != "" {
			sim.Loopback(ac.ReadChannel, ac.WriteChannel)
		}
	}
	return sim
}

// Probe opens and closes the X write channel until the device responds,
// backing off exponentially.  DAQ drivers freshly booted or mid-reservation
// refuse opens for a while; a retried probe at startup beats crashing.
// Per-operation calls after startup are never retried.
func Probe(c Config, drv daq.Driver) error {
	op := func() error {
		wr, err := drv.OpenOutput(c.Stage.X.WriteChannel)
		if err != nil {
			return err
		}
		return wr.Close()
	}
	return backoff.Retry(op, &backoff.ExponentialBackOff{
		InitialInterval:     100 * time.Millisecond,
		RandomizationFactor: 0.5,
		Multiplier:          2,
		MaxInterval:         2 * time.Second,
		MaxElapsedTime:      30 * time.Second,
		Clock:               backoff.SystemClock})
}

// BuildMux assembles the router: request logging, the lock and throttle
// middlewares, and the stage routes mounted at the configured endpoint
func BuildMux(c Config, drv daq.Driver) (chi.Router, error) {
	adapter := daq.NewAdapter(drv)
	ctl, err := piezo.New(adapter, c.Stage)
	if err != nil {
		return nil, err
	}
	httper := piezo.NewHTTPStage(ctl)
	lock := locker.New()
	locker.Inject(httper, lock)

	r := chi.NewRouter()
	r.Use(lock.Check)
	if c.MoveRate > 0 {
		r.Use(throttle.New(c.MoveRate, 1).Check)
	}
	httper.RT().Bind(r)

	root := chi.NewRouter()
	root.Use(middleware.Logger)
	root.Mount(generichttp.SubMuxSanitize(c.Endpoint), r)
	return root, nil
}
