// Package app wires configuration, the scratch session, the script runtime
// and the file watcher into the operations the command line exposes.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dshills/gyobango/internal/config"
	"github.com/dshills/gyobango/internal/config/loader"
	"github.com/dshills/gyobango/internal/plugin/lua"
	"github.com/dshills/gyobango/internal/scratch"
	"github.com/dshills/gyobango/internal/sequence"
)

// Application owns one scratch session and the configuration it runs under.
type Application struct {
	mu sync.RWMutex

	config  *config.Config
	logger  *Logger
	session *scratch.Session

	opts Options
}

// Options configures the application. Non-zero fields override the
// configuration file and environment.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// ScratchPath is the scratch document.
	ScratchPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// Headroom overrides sequence.headroom when non-nil.
	Headroom *int

	// LogOutput receives log lines. Defaults to stderr.
	LogOutput io.Writer

	// Env overrides the environment loader.
	Env loader.Loader
}

// New loads the configuration and opens the scratch document.
func New(opts Options) (*Application, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	logger := NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Logging.Level),
		Output: opts.LogOutput,
		Prefix: "gyobango",
	})

	session, err := scratch.Open(cfg.Scratch.Path, cfg.LineEnding(),
		scratch.WithAllocator(cfg.Allocator()),
		scratch.WithLogger(logger.WithComponent("scratch")),
	)
	if err != nil {
		return nil, &InitError{Component: "scratch", Err: err}
	}

	logger.Debug("opened %s (session %s, config %q)", cfg.Scratch.Path, session.ID(), cfg.Source)

	return &Application{
		config:  cfg,
		logger:  logger,
		session: session,
		opts:    opts,
	}, nil
}

// loadConfig loads the layered configuration and applies option overrides.
func loadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{Path: opts.ConfigPath, Env: opts.Env})
	if err != nil {
		return nil, err
	}

	if opts.ScratchPath != "" {
		cfg.Scratch.Path = opts.ScratchPath
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.Headroom != nil {
		cfg.Sequence.Headroom = *opts.Headroom
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Session returns the scratch session.
func (app *Application) Session() *scratch.Session {
	return app.session
}

// Number allocates identifiers for a source cursor at line and saves the
// scratch document. With dryRun the document is left untouched and the
// outcome describes what would have been inserted.
func (app *Application) Number(ctx context.Context, line int, dryRun bool) (scratch.Outcome, error) {
	if dryRun {
		return app.plan(line), nil
	}

	out, err := app.session.Number(ctx, scratch.Request{CursorLine: line})
	if err != nil {
		return scratch.Outcome{}, NewOperationError("number", app.session.Path(), err)
	}
	if err := app.session.Save(); err != nil {
		return out, NewOperationError("save", app.session.Path(), err)
	}

	app.logger.Info("appended %d identifiers at line %d", len(out.Result.Tokens), out.Result.InsertAt)
	return out, nil
}

// plan computes the outcome Number would produce.
func (app *Application) plan(line int) scratch.Outcome {
	buf := app.session.Buffer()
	snap := buf.Snapshot()
	res := app.session.Plan(snap, line)

	lineCount := snap.LineCount() + len(res.Tokens)
	if buf.IsEmpty() {
		lineCount = len(res.Tokens)
	}
	return scratch.Outcome{
		Result:       res,
		Revision:     snap.RevisionID(),
		CursorTarget: scratch.CursorTarget(line, lineCount),
		LineCount:    lineCount,
	}
}

// Scan returns the identifiers currently in the scratch document.
func (app *Application) Scan() sequence.Ledger {
	return app.session.Ledger()
}

// RunScript executes a Lua script with the gyo module bound to the scratch
// session, then saves the document if the script changed it. An empty path
// falls back to script.path.
func (app *Application) RunScript(ctx context.Context, path string) error {
	cfg := app.Config()
	if path == "" {
		path = cfg.Script.Path
	}
	if path == "" {
		return ErrNoScript
	}

	state := lua.NewState(lua.WithExecutionTimeout(cfg.Script.Timeout))
	defer state.Close()
	lua.NewModule(app.session, app.logger.WithComponent("script")).Register(state)

	app.logger.Debug("running %s", path)
	if err := state.DoFile(ctx, path); err != nil {
		return NewOperationError("run", path, err)
	}

	if app.session.Buffer().Modified() {
		if err := app.session.Save(); err != nil {
			return NewOperationError("save", app.session.Path(), err)
		}
	}
	return nil
}

// ReloadConfig reloads the configuration from its original sources and
// applies the sequence and logging settings. Scratch settings only take
// effect on restart; a change to them is logged and the running values are
// kept. On error the previous configuration stays in effect.
func (app *Application) ReloadConfig() error {
	opts := app.opts
	old := app.Config()
	if opts.ConfigPath == "" {
		opts.ConfigPath = old.Source
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}

	if cfg.Scratch != old.Scratch {
		app.logger.Warn("scratch settings changed (path %q, line ending %q); restart to apply them",
			cfg.Scratch.Path, cfg.Scratch.LineEnding)
		cfg.Scratch = old.Scratch
	}

	app.mu.Lock()
	app.config = cfg
	app.mu.Unlock()

	app.session.SetAllocator(cfg.Allocator())
	app.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))
	app.logger.Info("configuration reloaded (width %d, headroom %d)", cfg.Sequence.Width, cfg.Sequence.Headroom)
	return nil
}
