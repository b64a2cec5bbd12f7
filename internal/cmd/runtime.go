// Package cmd implements the hookgate command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauern/hookgate/internal/config"
	"github.com/klauern/hookgate/internal/consent"
	"github.com/klauern/hookgate/internal/plugins"
	"github.com/klauern/hookgate/internal/store"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// Options controls how a Runtime is assembled
type Options struct {
	ConfigPath string
	LogLevel   string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Getenv     func(string) string
	// Builtins defaults to the global bundled registry.
	Builtins *plugins.Registry
}

// Runtime holds the collaborators of one hookgate invocation
type Runtime struct {
	Config    *config.Config
	Loggers   ldlog.Loggers
	Store     store.Store
	Inventory *plugins.Composite
	Gate      *consent.Gate
	closers   []io.Closer
}

// RuntimeOpener builds a Runtime; tests substitute their own.
type RuntimeOpener func(ctx context.Context, opts Options) (*Runtime, error)

// OpenRuntime loads configuration and connects the property store.
func OpenRuntime(ctx context.Context, opts Options) (*Runtime, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Builtins == nil {
		opts.Builtins = plugins.Builtins()
	}

	xdg := config.NewXDGConfig()
	if err := config.LoadDotEnv(xdg.GetConfigDir()); err != nil {
		return nil, err
	}

	path := opts.ConfigPath
	if path == "" {
		path = xdg.FindConfigFile()
	}
	cfg, err := config.Load(path, xdg)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(opts.Getenv)
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	loggers, logCloser, err := config.NewLoggers(cfg.Logging, opts.Stderr)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Config: cfg, Loggers: loggers, closers: []io.Closer{logCloser}}

	st, err := store.Open(ctx, cfg.Store, loggers)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("failed to open property store: %w", err)
	}
	rt.Store = st
	rt.closers = append(rt.closers, st)

	env := &plugins.Env{
		Loggers:       loggers,
		RunnerFactory: plugins.DefaultRunnerFactory,
		Stdin:         opts.Stdin,
		Stdout:        opts.Stdout,
		Stderr:        opts.Stderr,
	}
	opts.Builtins.SetEnv(env)
	rt.Inventory = plugins.NewComposite(
		opts.Builtins,
		plugins.NewCustomSource(cfg.Plugins.CustomConfig, env),
		plugins.NewDirSource(cfg.Plugins.Dir, env),
	)
	rt.Gate = consent.NewGate(rt.Inventory, rt.Store, loggers)
	return rt, nil
}

// Close releases the store and log file, newest first
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
