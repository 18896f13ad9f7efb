package main

import (
	"context"

	"github.com/sells-group/lead-scout/internal/config"
	"github.com/sells-group/lead-scout/internal/lead"
	"github.com/sells-group/lead-scout/internal/render"
	"github.com/sells-group/lead-scout/internal/scorer"
	"github.com/sells-group/lead-scout/internal/store"
)

// leadEnv holds the service and the resources it was built from.
type leadEnv struct {
	Service *lead.Service
	Store   store.Store
}

// Close releases the history store, if one was opened.
func (e *leadEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initLead validates the config, applies a renderer override, and builds the
// lead service. The history store is opened only when withStore is set.
func initLead(ctx context.Context, c *config.Config, rendererOverride string, withStore bool) (*leadEnv, error) {
	if rendererOverride != "" {
		c.Render.Driver = rendererOverride
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := scorer.ValidateConfig(c.Scorer); err != nil {
		return nil, err
	}

	r, err := render.New(c.Render)
	if err != nil {
		return nil, err
	}

	env := &leadEnv{}
	var opts []lead.Option
	if withStore {
		st, err := store.Open(ctx, c.Store)
		if err != nil {
			return nil, err
		}
		if st != nil {
			env.Store = st
			opts = append(opts, lead.WithStore(st))
		}
	}

	env.Service = lead.NewService(r, opts...)
	return env, nil
}
