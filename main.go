package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"

	"notegpt/internal/chat"
	"notegpt/internal/config"
	"notegpt/internal/database"
	"notegpt/internal/llm/client"
	"notegpt/internal/services"
	"notegpt/internal/utils"
	"notegpt/internal/vault"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// Dev convenience; a missing .env is fine.
	_ = utils.LoadEnv()

	var cfg config.Config
	if cfgPath, err := config.DefaultPath(); err == nil {
		cfg = config.Load(cfgPath)
	}

	keyringService := services.NewKeyringService()
	resolveAPIKey(&cfg, keyringService)

	vaultRoot, err := resolveVaultRoot(cfg)
	if err != nil {
		fmt.Println("Error preparing vault:", err)
		return
	}
	vaultFS, err := vault.NewOS(vaultRoot)
	if err != nil {
		fmt.Println("Error opening vault:", err)
		return
	}

	db, err := database.Init(database.Config{
		Path: database.GetDefaultDBPath(),
	})
	if err != nil {
		fmt.Println("Error opening database:", err)
		return
	}

	app := NewApp(cfg, vaultRoot)
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	dbServices := services.NewDbServices(db)
	completer := client.New(nil)
	store := chat.NewStore(vaultFS, cfg.ResolvedChatFolder())
	chatService := services.NewChatService(store, completer, dbServices.Records, cfg, vaultRoot)
	refactorService := services.NewRefactorService(completer, dbServices.Records, cfg)

	err = wails.Run(&options.App{
		Title:  "NoteGPT",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "NoteGPT",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			app.startup(ctx)
			chatService.Startup(ctx)
			refactorService.Startup(ctx)
			dbServices.CompletionLog.Startup(ctx)
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
			chatService,
			refactorService,
			dbServices.CompletionLog,
			keyringService,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}

// resolveAPIKey fills cfg.APIKey from the first available source:
// config.json, the OPENAI_API_KEY environment, then the OS keyring.
// Resolution happens once; the config is immutable afterwards.
func resolveAPIKey(cfg *config.Config, keys *services.KeyringService) {
	if cfg.APIKey != "" {
		return
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.APIKey = v
		return
	}
	if k, err := keys.GetAPIKey(services.DefaultProvider); err == nil {
		cfg.APIKey = k
	}
}

// resolveVaultRoot picks the configured vault directory, defaulting to
// ~/NoteGPT, and makes sure it exists.
func resolveVaultRoot(cfg config.Config) (string, error) {
	root := cfg.VaultPath
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		root = filepath.Join(home, "NoteGPT")
	}
	if !utils.DirectoryExists(root) {
		if err := os.MkdirAll(root, 0755); err != nil {
			return "", err
		}
	}
	return root, nil
}
