// Package addfile provides the file picker view for adding PDFs.
package addfile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/keymap"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/messages"
	"github.com/pagedeck/pagedeck-cli/internal/adapters/driving/tui/styles"
	"github.com/pagedeck/pagedeck-cli/internal/core/ports/driving"
)

// View is the file picker view for adding PDFs to the workspace.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	workspace driving.WorkspaceService
	render    driving.RenderService
	picker    filepicker.Model

	ctx    context.Context
	width  int
	height int
	err    error
}

// NewView creates a new add-file view rooted in the working directory.
func NewView(s *styles.Styles, workspace driving.WorkspaceService, render driving.RenderService) *View {
	picker := filepicker.New()
	picker.AllowedTypes = []string{".pdf"}
	picker.ShowHidden = false
	if wd, err := os.Getwd(); err == nil {
		picker.CurrentDirectory = wd
	}

	return &View{
		styles:    s,
		keymap:    keymap.DefaultKeyMap(),
		workspace: workspace,
		render:    render,
		picker:    picker,
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
	v.picker.Height = height - 6
	if v.picker.Height < 5 {
		v.picker.Height = 5
	}
}

// Init initialises the file picker.
func (v *View) Init() tea.Cmd {
	v.err = nil
	return v.picker.Init()
}

// Update handles messages for the add-file view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, v.keymap.Back) {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewFiles}
			}
		}
	}

	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)

	if ok, path := v.picker.DidSelectFile(msg); ok {
		return v, tea.Batch(cmd, v.addFile(path))
	}
	if ok, path := v.picker.DidSelectDisabledFile(msg); ok {
		v.err = fmt.Errorf("%s is not a PDF", path)
		return v, cmd
	}

	return v, cmd
}

// addFile ingests one file and starts rendering its previews.
func (v *View) addFile(path string) tea.Cmd {
	return func() tea.Msg {
		result, err := v.workspace.AddFiles(v.ctx, []string{path})
		if err != nil {
			return messages.FileAdded{Err: err}
		}
		if len(result.Added) == 0 {
			if len(result.Skipped) > 0 {
				return messages.FileAdded{
					Skipped: result.Skipped[0].Name,
					Err:     result.Skipped[0].Err,
				}
			}
			return messages.FileAdded{Err: fmt.Errorf("no file added from %s", path)}
		}
		rec := result.Added[0]
		// Previews start in the background; progress shows in the list.
		_ = v.render.Start(v.ctx, rec.ID)
		return messages.FileAdded{Record: &rec}
	}
}

// View renders the file picker.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Add PDF"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(v.picker.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter select · esc back"))
	return b.String()
}
