package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/components/status"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/messages"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/styles"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/views/addfile"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/views/files"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/views/pages"
	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
)

// pollInterval paces render progress polling.
const pollInterval = 300 * time.Millisecond

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// filesView lists the workspace files.
	filesView *files.View

	// pagesView shows the page strip of the open file.
	pagesView *pages.View

	// addFileView is the file picker for adding PDFs.
	addFileView *addfile.View

	// statusBar is the persistent footer.
	statusBar *status.Bar

	// openRecord tracks the file opened in the pages view.
	openRecord *domain.FileRecord

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	outputDir := ""
	if ports.Settings != nil {
		if settings, err := ports.Settings.Get(); err == nil {
			outputDir = settings.Output.Dir
		}
	}

	s := styles.DefaultStyles()
	filesView := files.NewView(s, ports.Workspace, ports.Render, ports.Export, outputDir)
	pagesView := pages.NewView(s, ports.Workspace, ports.Render, ports.Export, outputDir)
	addFileView := addfile.NewView(s, ports.Workspace, ports.Render)
	statusBar := status.NewBar(s, nil)
	statusBar.SetHints("? help · q quit")

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		filesView:   filesView,
		pagesView:   pagesView,
		addFileView: addFileView,
		statusBar:   statusBar,
		currentView: messages.ViewFiles, // Start with the file list
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.filesView.WithContext(ctx)
	a.pagesView.WithContext(ctx)
	a.addFileView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("pagedeck - PDF Pages"),
		a.filesView.Init(),
		a.statusBar.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if _, ok := msg.(spinner.TickMsg); ok {
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.filesView.SetDimensions(msg.Width, msg.Height)
		a.pagesView.SetDimensions(msg.Width, msg.Height)
		a.addFileView.SetDimensions(msg.Width, msg.Height)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewFiles:
			// q quits from the top level, ? opens help
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "?":
				a.currentView = messages.ViewHelp
				return a, nil
			}
			a.filesView, cmd = a.filesView.Update(msg)
			a.err = a.filesView.Err()
			return a, cmd

		case messages.ViewPages:
			a.pagesView, cmd = a.pagesView.Update(msg)
			return a, cmd

		case messages.ViewAddFile:
			a.addFileView, cmd = a.addFileView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes back to the file list
			if msg.Type == tea.KeyEsc || msg.String() == "?" {
				a.currentView = messages.ViewFiles
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewFiles:
			return a, a.filesView.Init()
		case messages.ViewPages:
			a.pagesView.SetRecord(a.openRecord)
			return a, a.pagesView.Init()
		case messages.ViewAddFile:
			return a, a.addFileView.Init()
		case messages.ViewHelp:
			// Help is static
		}
		return a, nil

	case messages.FileOpened:
		a.openRecord = msg.Record
		return a, nil

	case messages.FileAdded:
		// Adding a file returns to the list, which reloads itself.
		if a.currentView == messages.ViewAddFile {
			a.currentView = messages.ViewFiles
		}
		a.filesView, cmd = a.filesView.Update(msg)
		return a, cmd

	case messages.RenderTick:
		return a, a.pollRender(msg.FileID)

	case messages.RenderProgressed:
		// Both views refresh their counters; the next tick is scheduled
		// here so polling survives view switches.
		switch {
		case msg.Err != nil:
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		case msg.Running:
			a.statusBar.SetState(status.StateRendering)
			a.statusBar.SetMessage(fmt.Sprintf("rendering previews (%d done)", msg.PagesRendered))
		default:
			a.statusBar.SetState(status.StateReady)
			a.statusBar.SetMessage("previews ready")
		}
		a.pagesView, cmd = a.pagesView.Update(msg)
		var listCmd tea.Cmd
		if a.currentView == messages.ViewFiles {
			a.filesView, listCmd = a.filesView.Update(msg)
		}
		var tickCmd tea.Cmd
		if msg.Running {
			tickCmd = scheduleTick(msg.FileID)
		}
		return a, tea.Batch(cmd, listCmd, tickCmd)

	case messages.PagesReordered, messages.ExportBlocked:
		a.pagesView, cmd = a.pagesView.Update(msg)
		return a, cmd

	case messages.ExportCompleted:
		switch a.currentView {
		case messages.ViewPages:
			a.pagesView, cmd = a.pagesView.Update(msg)
		default:
			a.filesView, cmd = a.filesView.Update(msg)
		}
		return a, cmd
	}

	// Forward other messages to the active view
	switch a.currentView {
	case messages.ViewFiles:
		a.filesView, cmd = a.filesView.Update(msg)
		a.err = a.filesView.Err()
	case messages.ViewPages:
		a.pagesView, cmd = a.pagesView.Update(msg)
	case messages.ViewAddFile:
		a.addFileView, cmd = a.addFileView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// pollRender reads render progress for a file.
func (a *App) pollRender(id string) tea.Cmd {
	return func() tea.Msg {
		status, err := a.ports.Render.Status(a.ctx, id)
		if err != nil {
			return messages.RenderProgressed{FileID: id, Err: err}
		}
		return messages.RenderProgressed{
			FileID:        id,
			Running:       status.Running,
			PagesRendered: status.PagesRendered,
			Err:           status.Err,
		}
	}
}

// scheduleTick schedules the next render poll.
func scheduleTick(id string) tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return messages.RenderTick{FileID: id}
	})
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewFiles:
		body = a.filesView.View()
	case messages.ViewPages:
		body = a.pagesView.View()
	case messages.ViewAddFile:
		body = a.addFileView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.filesView.View()
	}
	return body + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Files:
  j/k, ↑/↓    Navigate files
  enter       Open page strip
  space       Mark/unmark for merge
  m           Merge marked files
  e           Export selected file
  r           Render previews
  d           Delete file
  a           Add a PDF
  q           Quit

Pages:
  h/l, ←/→    Navigate pages
  enter       Grab page / drop it in place
  esc         Cancel a grab / back to files
  e           Export this file
  r           Render previews

[esc] back to files`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// OpenRecord returns the record opened in the pages view.
func (a *App) OpenRecord() *domain.FileRecord {
	return a.openRecord
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.filesView.SetDimensions(width, height)
	a.pagesView.SetDimensions(width, height)
}
