package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/gyobango/internal/engine/buffer"
	"github.com/dshills/gyobango/internal/watcher"
)

// Watch keeps the scratch document ahead of the source document until ctx
// is done. Every change to source tops the scratch document up so it holds
// an identifier for each source line plus headroom. Changes to the config
// file are reloaded.
func (app *Application) Watch(ctx context.Context, source string) error {
	if source == "" {
		return ErrNoSource
	}
	sourcePath, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", source, err)
	}

	w, err := watcher.New(watcher.WithDebounce(app.Config().Watch.Debounce))
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	defer w.Close()

	if err := w.Watch(sourcePath); err != nil {
		return NewOperationError("watch", sourcePath, err)
	}

	var configPath string
	if src := app.Config().Source; src != "" {
		if configPath, err = filepath.Abs(src); err == nil {
			if err := w.Watch(configPath); err != nil {
				app.logger.Warn("not watching config %s: %v", configPath, err)
				configPath = ""
			}
		}
	}

	events := make(chan watcher.Event, 16)
	w.OnChange(func(ev watcher.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})

	if err := app.syncSource(ctx, sourcePath); err != nil {
		app.logger.Warn("%v", err)
	}
	app.logger.Info("watching %s", sourcePath)

	for {
		select {
		case <-ctx.Done():
			app.logger.Info("stopped watching %s", sourcePath)
			return nil

		case err := <-w.Errors():
			app.logger.Warn("watcher: %v", err)

		case ev := <-events:
			switch ev.Path {
			case configPath:
				if err := app.ReloadConfig(); err != nil {
					app.logger.Error("%v", err)
					continue
				}
				if d := app.Config().Watch.Debounce; d != w.Debounce() {
					w.SetDebounce(d)
					app.logger.Info("watch debounce set to %v", d)
				}
				if err := app.syncSource(ctx, sourcePath); err != nil {
					app.logger.Warn("%v", err)
				}
			case sourcePath:
				if ev.Op.Has(watcher.OpRemove) && !ev.Op.Has(watcher.OpCreate) {
					app.logger.Warn("%s was removed", sourcePath)
					continue
				}
				if err := app.syncSource(ctx, sourcePath); err != nil {
					app.logger.Warn("%v", err)
				}
			}
		}
	}
}

// syncSource tops the scratch document up for the source's line count,
// treating the source cursor as sitting on its last line.
func (app *Application) syncSource(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewOperationError("read", path, err)
	}
	lines := buffer.NewBufferFromString(string(data)).LineCount()

	out, changed, err := app.session.TopUp(ctx, lines-1)
	if err != nil {
		return NewOperationError("number", app.session.Path(), err)
	}
	if !changed {
		app.logger.Debug("%s has %d lines; scratch document is ahead", path, lines)
		return nil
	}
	if err := app.session.Save(); err != nil {
		return NewOperationError("save", app.session.Path(), err)
	}
	app.logger.Info("source at %d lines; appended %d identifiers", lines, len(out.Result.Tokens))
	return nil
}
