// Package files provides the workspace file list view for the TUI.
package files

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/keymap"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/messages"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/styles"
	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
)

// View is the workspace file list view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	workspace driving.WorkspaceService
	render    driving.RenderService
	export    driving.ExportService

	ctx       context.Context
	outputDir string
	records   []domain.FileRecord
	selected  int
	width     int
	height    int
	err       error
	notice    string
	loading   bool
}

// NewView creates a new file list view. Exported and merged documents
// are written into outputDir.
func NewView(s *styles.Styles, workspace driving.WorkspaceService, render driving.RenderService, export driving.ExportService, outputDir string) *View {
	return &View{
		styles:    s,
		keymap:    keymap.DefaultKeyMap(),
		workspace: workspace,
		render:    render,
		export:    export,
		outputDir: outputDir,
		ctx:       context.Background(),
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) {
	v.ctx = ctx
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Init loads the workspace files.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadFiles()
}

// Selected returns the record under the cursor, or nil.
func (v *View) Selected() *domain.FileRecord {
	if v.selected < 0 || v.selected >= len(v.records) {
		return nil
	}
	return &v.records[v.selected]
}

// Err returns the last error shown by the view.
func (v *View) Err() error {
	return v.err
}

// loadFiles returns a command that loads the workspace file list.
func (v *View) loadFiles() tea.Cmd {
	return func() tea.Msg {
		records, err := v.workspace.List(v.ctx)
		if err != nil {
			return messages.FilesLoaded{Err: err}
		}
		selectedID := ""
		if selected, err := v.workspace.Selected(v.ctx); err == nil {
			selectedID = selected.ID
		}
		return messages.FilesLoaded{Records: records, Selected: selectedID}
	}
}

// Update handles messages for the file list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.FilesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.records = msg.Records
		// Follow the workspace selection when it points at a record.
		for i := range v.records {
			if v.records[i].ID == msg.Selected {
				v.selected = i
				break
			}
		}
		if v.selected >= len(v.records) {
			v.selected = len(v.records) - 1
		}
		if v.selected < 0 {
			v.selected = 0
		}
		return v, nil

	case messages.FileAdded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Added %s", msg.Record.Name)
		return v, v.loadFiles()

	case messages.FileRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadFiles()

	case messages.RenderProgressed:
		// Refresh preview counters while rendering runs.
		return v, v.loadFiles()

	case messages.MergeCompleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Merged into %s", msg.Record.Name)
		return v, v.loadFiles()

	case messages.ExportCompleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if msg.Fallback {
			v.notice = fmt.Sprintf("Export failed, wrote original to %s", msg.Path)
		} else {
			v.notice = fmt.Sprintf("Exported %s", msg.Path)
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.records)-1 {
			v.selected++
		}
		return v, nil

	case key.Matches(msg, v.keymap.Select):
		rec := v.Selected()
		if rec == nil {
			return v, nil
		}
		return v, tea.Batch(
			v.selectFile(rec.ID),
			func() tea.Msg { return messages.FileOpened{Record: rec} },
			func() tea.Msg { return messages.ViewChanged{View: messages.ViewPages} },
		)

	case key.Matches(msg, v.keymap.Add):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewAddFile} }

	case key.Matches(msg, v.keymap.Delete):
		rec := v.Selected()
		if rec == nil {
			return v, nil
		}
		return v, v.removeFile(rec.ID)

	case key.Matches(msg, v.keymap.Mark):
		rec := v.Selected()
		if rec == nil {
			return v, nil
		}
		return v, v.toggleMark(rec)

	case key.Matches(msg, v.keymap.Merge):
		return v, v.merge()

	case key.Matches(msg, v.keymap.Export):
		rec := v.Selected()
		if rec == nil {
			return v, nil
		}
		return v, exportFile(v.ctx, v.export, rec.ID, false, v.outputDir)

	case key.Matches(msg, v.keymap.Render):
		rec := v.Selected()
		if rec == nil {
			return v, nil
		}
		return v, startRender(v.ctx, v.render, rec.ID)
	}

	return v, nil
}

// selectFile persists the workspace selection.
func (v *View) selectFile(id string) tea.Cmd {
	return func() tea.Msg {
		if err := v.workspace.Select(v.ctx, id); err != nil {
			return messages.FilesLoaded{Err: err}
		}
		return nil
	}
}

// removeFile removes a record.
func (v *View) removeFile(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.workspace.Remove(v.ctx, id)
		return messages.FileRemoved{ID: id, Err: err}
	}
}

// toggleMark flips the merge mark of a record and reloads the list.
func (v *View) toggleMark(rec *domain.FileRecord) tea.Cmd {
	target := !rec.MergeSelected
	id := rec.ID
	load := v.loadFiles()
	return func() tea.Msg {
		if err := v.workspace.SetMergeSelected(v.ctx, id, target); err != nil {
			return messages.FilesLoaded{Err: err}
		}
		return load()
	}
}

// merge merges all marked records and writes the result to disk.
func (v *View) merge() tea.Cmd {
	dir := v.outputDir
	return func() tea.Msg {
		result, err := v.export.Merge(v.ctx)
		if err != nil {
			return messages.MergeCompleted{Err: err}
		}
		path, err := writeDocument(dir, result.Filename, result.Data)
		if err != nil {
			return messages.MergeCompleted{Err: err}
		}
		return messages.MergeCompleted{Record: result.Record, Path: path}
	}
}

// View renders the file list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Workspace"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading..."))
		return b.String()
	}
	if len(v.records) == 0 {
		b.WriteString(v.styles.Muted.Render("No files yet. Press 'a' to add a PDF."))
		return b.String()
	}

	for i := range v.records {
		rec := &v.records[i]

		mark := "[ ]"
		if rec.MergeSelected {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s  %d pages", mark, rec.Name, rec.TotalPages)
		if rec.Rendering {
			line += fmt.Sprintf("  rendering %d/%d", rec.RenderedPages(), len(rec.Pages))
		} else if n := rec.RenderedPages(); n > 0 && n < len(rec.Pages) {
			line += fmt.Sprintf("  %d/%d previews", n, len(rec.Pages))
		}

		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter open · space mark · m merge · e export · d delete · a add · ? help · q quit"))
	return b.String()
}

// exportFile runs an export as a command and writes the result to disk.
func exportFile(ctx context.Context, export driving.ExportService, id string, force bool, dir string) tea.Cmd {
	return func() tea.Msg {
		result, err := export.ExportFile(ctx, id, force)
		if err != nil {
			if errors.Is(err, domain.ErrRenderInProgress) {
				return messages.ExportBlocked{FileID: id}
			}
			return messages.ExportCompleted{Err: err}
		}
		path, err := writeDocument(dir, result.Filename, result.Data)
		if err != nil {
			return messages.ExportCompleted{Err: err}
		}
		return messages.ExportCompleted{
			Path:     path,
			Fallback: result.Fallback,
			Reason:   result.Reason,
		}
	}
}

// writeDocument writes an output document under dir.
func writeDocument(dir, filename string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// startRender starts background preview rendering and kicks off polling.
func startRender(ctx context.Context, render driving.RenderService, id string) tea.Cmd {
	return func() tea.Msg {
		if err := render.Start(ctx, id); err != nil {
			return messages.FilesLoaded{Err: err}
		}
		return messages.RenderTick{FileID: id}
	}
}
