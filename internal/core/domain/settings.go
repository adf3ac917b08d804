package domain

// WorkspaceBackend selects the store that holds the session workspace.
type WorkspaceBackend string

const (
	// BackendSQLite persists the workspace in a local SQLite database
	// so CLI invocations share one session.
	BackendSQLite WorkspaceBackend = "sqlite"

	// BackendMemory keeps the workspace in process memory only.
	BackendMemory WorkspaceBackend = "memory"
)

// IsValid reports whether the backend is a known value.
func (b WorkspaceBackend) IsValid() bool {
	return b == BackendSQLite || b == BackendMemory
}

// IngestSettings controls file ingestion.
type IngestSettings struct {
	// MaxFileBytes is the size ceiling for a single file. Larger files
	// are skipped with a report; other files continue.
	MaxFileBytes int64
}

// RenderSettings controls preview rendering.
type RenderSettings struct {
	// Scale is the fixed scale factor for thumbnails (1.0 = 72 dpi).
	Scale float64

	// PagesPerSecond paces progressive rendering so the UI stays
	// responsive. Zero disables pacing.
	PagesPerSecond float64
}

// OutputSettings controls where exported documents are written.
type OutputSettings struct {
	// Dir is the directory for exported files. Empty means the
	// current working directory.
	Dir string
}

// WorkspaceSettings controls workspace storage.
type WorkspaceSettings struct {
	Backend WorkspaceBackend
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	Ingest    IngestSettings
	Render    RenderSettings
	Output    OutputSettings
	Workspace WorkspaceSettings
}

// DefaultAppSettings returns settings used when nothing is configured.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		Ingest: IngestSettings{
			MaxFileBytes: 50 << 20, // 50 MiB
		},
		Render: RenderSettings{
			Scale:          1.5,
			PagesPerSecond: 8,
		},
		Output: OutputSettings{
			Dir: "",
		},
		Workspace: WorkspaceSettings{
			Backend: BackendSQLite,
		},
	}
}
