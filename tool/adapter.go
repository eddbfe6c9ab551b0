package tool

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/internal/util"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
)

// Options configures Adapt.
type Options struct {
	Logger logging.Logger
}

// Adapt converts tools into engine tools bound to store. Malformed tools are
// rejected with agent.ErrMalformedTool.
func Adapt(tools map[string]agent.Tool, store *core.ContextStore, optFns ...func(o *Options)) (map[string]model.Tool, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)
	out := make(map[string]model.Tool, len(tools))

	for name, t := range tools {
		if err := t.Validate(); err != nil {
			return nil, err
		}

		if name != t.Name {
			return nil, fmt.Errorf("%w: tool registered as %q is named %q", agent.ErrMalformedTool, name, t.Name)
		}

		mt := model.Tool{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		}

		if t.WantsContext() {
			mt.Parameters = util.StripProperty(t.Parameters, agent.ContextParam)
		}

		switch t.Kind {
		case agent.KindFunction:
			exec := wrapFunction(t, store, logger)
			if t.WantsContext() {
				exec = injectContext(exec, store)
			}

			mt.Execute = exec
		case agent.KindHandover:
			// intercepted by the swarm; the engine must stop on it
		}

		out[name] = mt
	}

	return out, nil
}

func wrapFunction(t agent.Tool, store *core.ContextStore, logger logging.Logger) model.ExecuteFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		start := time.Now()

		logger.Debug("tool.call.start", "tool", t.Name)

		res, err := t.Function(ctx, args)
		if err != nil {
			logger.Error("tool.call.error", "tool", t.Name, "error", err.Error())
			return nil, err
		}

		if len(res.Context) > 0 {
			store.Merge(res.Context)
			logger.Debug("tool.context.merged", "tool", t.Name, "keys", len(res.Context))
		}

		logger.Info("tool.call.success", "tool", t.Name, "duration_ms", time.Since(start).Milliseconds())

		return res.Result, nil
	}
}

func injectContext(next model.ExecuteFunc, store *core.ContextStore) model.ExecuteFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		withCtx := make(map[string]any, len(args)+1)
		maps.Copy(withCtx, args)
		withCtx[agent.ContextParam] = store.Get()

		return next(ctx, withCtx)
	}
}
