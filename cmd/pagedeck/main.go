// Command pagedeck is a PDF page manipulation tool: load PDFs, reorder
// their pages, and export or merge the results.
package main

import (
	"fmt"
	"os"

	"github.com/pagedeck/pagedeck-cli/internal/adapters/driven/config/file"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driven/pdfcpu"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driven/raster"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driven/storage/memory"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driven/storage/sqlite"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/cli"
	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
	"github.com/pagedeck/pagedeck-cli/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to initialise config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	store, cleanup, err := newFileStore(settings.Workspace.Backend)
	if err != nil {
		return fmt.Errorf("failed to open workspace store: %w", err)
	}
	defer cleanup()

	engine := pdfcpu.NewEngine()
	rasterizer := raster.NewRasterizer()

	cli.SetServices(&cli.Services{
		Workspace: services.NewWorkspaceService(store, engine, settings.Ingest.MaxFileBytes),
		Render:    services.NewRenderService(store, rasterizer, settings.Render.Scale, settings.Render.PagesPerSecond),
		Export:    services.NewExportService(store, engine),
		Settings:  settingsService,
	})
	cli.SetVersion(version)

	return cli.Execute()
}

// newFileStore opens the workspace store for the configured backend.
func newFileStore(backend domain.WorkspaceBackend) (driven.FileStore, func(), error) {
	if backend == domain.BackendMemory {
		return memory.NewFileStore(), func() {}, nil
	}
	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
