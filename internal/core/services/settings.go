package services

import (
	"fmt"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driven"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Configuration keys.
const (
	keyMaxFileBytes   = "ingest.max_file_bytes"
	keyRenderScale    = "render.scale"
	keyPagesPerSecond = "render.pages_per_second"
	keyOutputDir      = "output.dir"
	keyBackend        = "workspace.backend"
)

// SettingsService manages application settings backed by a config store.
type SettingsService struct {
	config driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(config driven.ConfigStore) *SettingsService {
	return &SettingsService{config: config}
}

// Get retrieves current application settings. Missing or invalid
// values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	if v := s.config.GetInt(keyMaxFileBytes); v > 0 {
		settings.Ingest.MaxFileBytes = int64(v)
	}
	if v := s.config.GetFloat(keyRenderScale); v > 0 {
		settings.Render.Scale = v
	}
	if _, ok := s.config.Get(keyPagesPerSecond); ok {
		settings.Render.PagesPerSecond = s.config.GetFloat(keyPagesPerSecond)
	}
	if v := s.config.GetString(keyOutputDir); v != "" {
		settings.Output.Dir = v
	}
	if v := domain.WorkspaceBackend(s.config.GetString(keyBackend)); v.IsValid() {
		settings.Workspace.Backend = v
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if !settings.Workspace.Backend.IsValid() {
		return fmt.Errorf("%w: unknown workspace backend %q", domain.ErrInvalidInput, settings.Workspace.Backend)
	}

	values := map[string]any{
		keyMaxFileBytes:   int(settings.Ingest.MaxFileBytes),
		keyRenderScale:    settings.Render.Scale,
		keyPagesPerSecond: settings.Render.PagesPerSecond,
		keyOutputDir:      settings.Output.Dir,
		keyBackend:        string(settings.Workspace.Backend),
	}
	for key, value := range values {
		if err := s.config.Set(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return s.config.Save()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return *domain.DefaultAppSettings()
}
