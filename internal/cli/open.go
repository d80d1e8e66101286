package cli

import (
	"context"
	"fmt"

	"github.com/roach88/pakview/internal/container"
	"github.com/roach88/pakview/internal/namecache"
	"github.com/roach88/pakview/internal/registry"
	"github.com/roach88/pakview/internal/session"
	"github.com/roach88/pakview/internal/shader"
	"github.com/roach88/pakview/internal/shaderset"
)

// newRegistry returns a registry with every supported asset type.
func newRegistry() (*registry.Registry, error) {
	reg := registry.New()
	for _, register := range []func(*registry.Registry) error{
		shaderset.Register,
		shader.Register,
	} {
		if err := register(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// openSession opens the pak at path and runs the load and post-load
// phases. The returned close function releases the name cache.
func openSession(ctx context.Context, opts *RootOptions, path string) (*session.Session, func(), error) {
	file, err := container.Open(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open pak", err)
	}

	reg, err := newRegistry()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to register asset types", err)
	}

	sessOpts := []session.Option{
		session.WithLogger(opts.Logger),
		session.WithWorkers(opts.Config.Workers),
	}
	closeFn := func() {}
	if opts.Config.NameCache != "" {
		cache, err := namecache.Open(opts.Config.NameCache)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to open name cache", err)
		}
		sessOpts = append(sessOpts, session.WithNameCache(cache))
		closeFn = func() {
			if err := cache.Close(); err != nil {
				opts.Logger.Error("error closing name cache", "error", err)
			}
		}
	}

	sess := session.New(reg, sessOpts...)
	opts.Logger.Debug("opening pak", "path", path, "session", sess.ID(), "records", len(file.Records()))
	if err := sess.Open(ctx, file); err != nil {
		closeFn()
		return nil, nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", path), err)
	}
	return sess, closeFn, nil
}
