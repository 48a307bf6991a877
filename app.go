package main

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"notegpt/internal/config"
	"notegpt/internal/events"
)

// App is the application context: configuration loaded once at startup,
// shared runtime context, and shutdown hooks.
type App struct {
	ctx       context.Context
	cfg       config.Config
	vaultRoot string
	dbClose   func() error
}

func NewApp(cfg config.Config, vaultRoot string) *App {
	return &App{cfg: cfg, vaultRoot: vaultRoot}
}

// startup is called when the app starts. The context is saved so runtime
// methods and event emission can use it.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	events.EnableRuntimeEmitter()
}

// shutdown tears the app down: the event emitter is disabled so nothing
// outlives the view, then the database pool is closed.
func (a *App) shutdown(ctx context.Context) {
	events.DisableEmitter()

	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, "failed to close database: "+err.Error())
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// SelectVault opens a native directory picker so the user can choose a
// vault root. The frontend persists the choice into config.json.
func (a *App) SelectVault() (string, error) {
	return runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select Note Vault",
	})
}

// VaultPath returns the vault root in use for this session.
func (a *App) VaultPath() string {
	return a.vaultRoot
}

// ConfigPath returns the config.json location so the settings screen can
// point the user at it.
func (a *App) ConfigPath() string {
	path, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return path
}

// IsConfigured reports whether an API key was resolved at startup.
func (a *App) IsConfigured() bool {
	return a.cfg.APIKey != ""
}
