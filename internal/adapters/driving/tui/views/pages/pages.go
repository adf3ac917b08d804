// Package pages provides the page strip view for reordering a file's pages.
package pages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/keymap"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/messages"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/styles"
	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
)

// View is the page strip view. Pages are shown left to right in their
// current order; a grabbed page is moved locally and committed as one
// reorder when dropped.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	workspace driving.WorkspaceService
	render    driving.RenderService
	export    driving.ExportService

	ctx       context.Context
	outputDir string

	record   *domain.FileRecord
	cursor   int
	grabbed  bool
	grabFrom int
	// snapshot holds the page order at grab time so esc can restore it
	// without touching the workspace.
	snapshot []domain.PageRef

	confirming bool
	rendering  bool
	width      int
	height     int
	err        error
	notice     string
}

// NewView creates a new page strip view.
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

// SetRecord points the view at a file and resets transient state.
func (v *View) SetRecord(record *domain.FileRecord) {
	v.record = record
	v.cursor = 0
	v.grabbed = false
	v.snapshot = nil
	v.confirming = false
	v.err = nil
	v.notice = ""
	if record != nil {
		v.rendering = record.Rendering
	}
}

// Record returns the file currently shown.
func (v *View) Record() *domain.FileRecord {
	return v.record
}

// Grabbed reports whether a page is currently grabbed.
func (v *View) Grabbed() bool {
	return v.grabbed
}

// Init kicks off render polling when the file is still rendering.
func (v *View) Init() tea.Cmd {
	if v.record != nil && v.record.Rendering {
		id := v.record.ID
		return func() tea.Msg {
			return messages.RenderTick{FileID: id}
		}
	}
	return nil
}

// Update handles messages for the page strip view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		if v.confirming {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.PagesReordered:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.record = msg.Record
		return v, nil

	case messages.RenderProgressed:
		if v.record == nil || v.record.ID != msg.FileID {
			return v, nil
		}
		v.rendering = msg.Running
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, v.reloadRecord()

	case messages.FilesLoaded:
		// Refresh the shown record from the reloaded list.
		if v.record == nil || msg.Err != nil {
			return v, nil
		}
		for i := range msg.Records {
			if msg.Records[i].ID == v.record.ID {
				rec := msg.Records[i]
				v.refreshRecord(&rec)
				return v, nil
			}
		}
		return v, nil

	case messages.ExportBlocked:
		v.confirming = true
		return v, nil

	case messages.ExportCompleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		if msg.Fallback {
			v.notice = fmt.Sprintf("Export failed (%v), wrote original to %s", msg.Reason, msg.Path)
		} else {
			v.notice = fmt.Sprintf("Exported %s", msg.Path)
		}
		return v, nil
	}

	return v, nil
}

// refreshRecord adopts a reloaded record while keeping an in-progress
// grab intact. A grab works on local order only, so the stored order is
// only adopted when no grab is active.
func (v *View) refreshRecord(rec *domain.FileRecord) {
	if v.grabbed {
		// Keep the local order but pick up fresh thumbs by page number.
		thumbs := make(map[int]string, len(rec.Pages))
		for _, p := range rec.Pages {
			thumbs[p.PageNumber] = p.Thumb
		}
		for i := range v.record.Pages {
			if t, ok := thumbs[v.record.Pages[i].PageNumber]; ok && t != "" {
				v.record.Pages[i].Thumb = t
			}
		}
		for i := range v.snapshot {
			if t, ok := thumbs[v.snapshot[i].PageNumber]; ok && t != "" {
				v.snapshot[i].Thumb = t
			}
		}
		v.record.Rendering = rec.Rendering
		return
	}
	if v.cursor >= len(rec.Pages) {
		v.cursor = len(rec.Pages) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.record = rec
	v.rendering = rec.Rendering
}

// handleConfirmKey handles the export confirmation overlay.
func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirming = false
		return v, exportFile(v.ctx, v.export, v.record.ID, true, v.outputDir)
	case "n", "N", "esc":
		v.confirming = false
		return v, nil
	}
	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.record == nil {
		if key.Matches(msg, v.keymap.Back) {
			return v, backToFiles()
		}
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keymap.Back):
		if v.grabbed {
			// Cancel the grab: restore the order from grab time.
			// Nothing was committed, so no service call is needed.
			v.record.Pages = v.snapshot
			v.cursor = v.grabFrom
			v.grabbed = false
			v.snapshot = nil
			return v, nil
		}
		return v, backToFiles()

	case key.Matches(msg, v.keymap.Left):
		if v.grabbed {
			v.shift(-1)
		} else if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keymap.Right):
		if v.grabbed {
			v.shift(1)
		} else if v.cursor < len(v.record.Pages)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keymap.Select):
		if len(v.record.Pages) == 0 {
			return v, nil
		}
		if !v.grabbed {
			// Grab: snapshot the order so esc can restore it.
			v.snapshot = append([]domain.PageRef(nil), v.record.Pages...)
			v.grabFrom = v.cursor
			v.grabbed = true
			return v, nil
		}
		// Drop: commit the whole move as one reorder.
		from, to := v.grabFrom, v.cursor
		v.grabbed = false
		v.snapshot = nil
		if from == to {
			return v, nil
		}
		return v, v.commitMove(from, to)

	case key.Matches(msg, v.keymap.Export):
		return v, exportFile(v.ctx, v.export, v.record.ID, false, v.outputDir)

	case key.Matches(msg, v.keymap.Render):
		return v, v.startRender()
	}

	return v, nil
}

// shift moves the grabbed page one slot locally, without touching the
// workspace until the drop.
func (v *View) shift(delta int) {
	next := v.cursor + delta
	if next < 0 || next >= len(v.record.Pages) {
		return
	}
	pages := v.record.Pages
	pages[v.cursor], pages[next] = pages[next], pages[v.cursor]
	v.cursor = next
}

// commitMove asks the workspace to apply the finished move. The local
// order already reflects it; the committed record replaces it so both
// stay in sync.
func (v *View) commitMove(from, to int) tea.Cmd {
	id := v.record.ID
	return func() tea.Msg {
		rec, err := v.workspace.MovePage(v.ctx, id, from, to)
		return messages.PagesReordered{Record: rec, Err: err}
	}
}

// startRender starts background rendering and begins polling.
func (v *View) startRender() tea.Cmd {
	id := v.record.ID
	return func() tea.Msg {
		if err := v.render.Start(v.ctx, id); err != nil {
			return messages.RenderProgressed{FileID: id, Err: err}
		}
		return messages.RenderTick{FileID: id}
	}
}

// reloadRecord reloads the workspace list so fresh thumbs show up.
func (v *View) reloadRecord() tea.Cmd {
	return func() tea.Msg {
		records, err := v.workspace.List(v.ctx)
		return messages.FilesLoaded{Records: records, Err: err}
	}
}

// backToFiles navigates back to the file list.
func backToFiles() tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: messages.ViewFiles}
	}
}

// View renders the page strip.
func (v *View) View() string {
	var b strings.Builder

	if v.record == nil {
		b.WriteString(v.styles.Muted.Render("No file open. Press esc to go back."))
		return b.String()
	}

	b.WriteString(v.styles.Title.Render(v.record.Name))
	if v.rendering {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  rendering %d/%d", v.record.RenderedPages(), len(v.record.Pages))))
	}
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderStrip())
	b.WriteString("\n\n")

	if v.confirming {
		b.WriteString(v.styles.Warning.Render("Previews are still rendering. Export anyway? (y/N)"))
		return b.String()
	}

	if v.grabbed {
		b.WriteString(v.styles.Help.Render("←/→ move page · enter drop · esc cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("←/→ navigate · enter grab · e export · r render · esc back"))
	}
	return b.String()
}

// renderStrip draws the pages left to right in their current order.
func (v *View) renderStrip() string {
	cells := make([]string, 0, len(v.record.Pages))
	for i, page := range v.record.Pages {
		label := fmt.Sprintf("p%d", page.PageNumber)
		if page.Thumb == "" {
			label += "\n·"
		} else {
			label += "\n▣"
		}

		style := v.styles.PageCell
		switch {
		case i == v.cursor && v.grabbed:
			style = v.styles.PageCellGrabbed
		case i == v.cursor:
			style = v.styles.PageCellSelected
		}
		cells = append(cells, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
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
