package mcp

import (
	"context"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddFileInput is the input schema for the add_file tool.
type AddFileInput struct {
	Path string `json:"path" jsonschema:"path of the PDF file to add to the workspace"`
}

// AddFileOutput is the output schema for the add_file tool.
type AddFileOutput struct {
	FileID string `json:"file_id"`
	Name   string `json:"name"`
	Pages  int    `json:"pages"`
}

// ListFilesOutput is the output schema for the list_files tool.
type ListFilesOutput struct {
	Files []FileOutput `json:"files"`
	Count int          `json:"count"`
}

// FileOutput represents a single workspace file.
type FileOutput struct {
	FileID        string `json:"file_id"`
	Name          string `json:"name"`
	Pages         int    `json:"pages"`
	PageOrder     []int  `json:"page_order"`
	Rendering     bool   `json:"rendering"`
	MergeSelected bool   `json:"merge_selected"`
	Selected      bool   `json:"selected"`
}

// ReorderInput is the input schema for the reorder_pages tool.
type ReorderInput struct {
	FileID string `json:"file_id" jsonschema:"the workspace file to reorder"`
	From   int    `json:"from" jsonschema:"1-based position of the page to move"`
	To     int    `json:"to" jsonschema:"1-based position to move the page to"`
}

// ReorderOutput is the output schema for the reorder_pages tool.
type ReorderOutput struct {
	FileID    string `json:"file_id"`
	PageOrder []int  `json:"page_order"`
}

// MarkInput is the input schema for the mark_for_merge tool.
type MarkInput struct {
	FileID   string `json:"file_id" jsonschema:"the workspace file to mark"`
	Selected bool   `json:"selected" jsonschema:"true to mark for merge, false to unmark"`
}

// MarkOutput is the output schema for the mark_for_merge tool.
type MarkOutput struct {
	FileID        string `json:"file_id"`
	MergeSelected bool   `json:"merge_selected"`
}

// ExportInput is the input schema for the export_file tool.
type ExportInput struct {
	FileID    string `json:"file_id" jsonschema:"the workspace file to export"`
	OutputDir string `json:"output_dir,omitempty" jsonschema:"directory to write the exported PDF (default current directory)"`
	Force     bool   `json:"force,omitempty" jsonschema:"export even while previews are rendering; the output is identical"`
}

// ExportOutput is the output schema for the export_file tool.
type ExportOutput struct {
	Path     string `json:"path"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// MergeInput is the input schema for the merge_files tool.
type MergeInput struct {
	OutputDir string `json:"output_dir,omitempty" jsonschema:"directory to write the merged PDF (default current directory)"`
}

// MergeOutput is the output schema for the merge_files tool.
type MergeOutput struct {
	Path   string `json:"path"`
	FileID string `json:"file_id"`
	Pages  int    `json:"pages"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_file",
		Description: "Add a PDF file to the workspace",
	}, s.handleAddFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_files",
		Description: "List the workspace files with their current page order",
	}, s.handleListFiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reorder_pages",
		Description: "Move a page of a workspace file to a new position",
	}, s.handleReorder)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mark_for_merge",
		Description: "Mark or unmark a workspace file for merging",
	}, s.handleMark)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_file",
		Description: "Export a workspace file as a PDF with its current page order",
	}, s.handleExport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "merge_files",
		Description: "Merge all files marked for merging into one PDF",
	}, s.handleMerge)
}

// handleAddFile handles the add_file tool invocation.
func (s *Server) handleAddFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddFileInput,
) (*mcp.CallToolResult, AddFileOutput, error) {
	data, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, AddFileOutput{}, err
	}

	rec, err := s.ports.Workspace.AddBytes(ctx, filepath.Base(input.Path), data)
	if err != nil {
		return nil, AddFileOutput{}, err
	}

	return nil, AddFileOutput{
		FileID: rec.ID,
		Name:   rec.Name,
		Pages:  rec.TotalPages,
	}, nil
}

// handleListFiles handles the list_files tool invocation.
func (s *Server) handleListFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListFilesOutput, error) {
	records, err := s.ports.Workspace.List(ctx)
	if err != nil {
		return nil, ListFilesOutput{}, err
	}

	selectedID := ""
	if selected, err := s.ports.Workspace.Selected(ctx); err == nil {
		selectedID = selected.ID
	}

	output := ListFilesOutput{
		Files: make([]FileOutput, len(records)),
		Count: len(records),
	}
	for i := range records {
		rec := &records[i]
		order := make([]int, len(rec.Pages))
		for j, p := range rec.Pages {
			order[j] = p.PageNumber
		}
		output.Files[i] = FileOutput{
			FileID:        rec.ID,
			Name:          rec.Name,
			Pages:         rec.TotalPages,
			PageOrder:     order,
			Rendering:     rec.Rendering,
			MergeSelected: rec.MergeSelected,
			Selected:      rec.ID == selectedID,
		}
	}

	return nil, output, nil
}

// handleReorder handles the reorder_pages tool invocation.
func (s *Server) handleReorder(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReorderInput,
) (*mcp.CallToolResult, ReorderOutput, error) {
	rec, err := s.ports.Workspace.MovePage(ctx, input.FileID, input.From-1, input.To-1)
	if err != nil {
		return nil, ReorderOutput{}, err
	}

	order := make([]int, len(rec.Pages))
	for i, p := range rec.Pages {
		order[i] = p.PageNumber
	}
	return nil, ReorderOutput{FileID: rec.ID, PageOrder: order}, nil
}

// handleMark handles the mark_for_merge tool invocation.
func (s *Server) handleMark(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MarkInput,
) (*mcp.CallToolResult, MarkOutput, error) {
	if err := s.ports.Workspace.SetMergeSelected(ctx, input.FileID, input.Selected); err != nil {
		return nil, MarkOutput{}, err
	}
	return nil, MarkOutput{FileID: input.FileID, MergeSelected: input.Selected}, nil
}

// handleExport handles the export_file tool invocation.
func (s *Server) handleExport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExportInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	result, err := s.ports.Export.ExportFile(ctx, input.FileID, input.Force)
	if err != nil {
		return nil, ExportOutput{}, err
	}

	path, err := writeDocument(input.OutputDir, result.Filename, result.Data)
	if err != nil {
		return nil, ExportOutput{}, err
	}

	output := ExportOutput{Path: path, Fallback: result.Fallback}
	if result.Reason != nil {
		output.Reason = result.Reason.Error()
	}
	return nil, output, nil
}

// handleMerge handles the merge_files tool invocation.
func (s *Server) handleMerge(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MergeInput,
) (*mcp.CallToolResult, MergeOutput, error) {
	result, err := s.ports.Export.Merge(ctx)
	if err != nil {
		return nil, MergeOutput{}, err
	}

	path, err := writeDocument(input.OutputDir, result.Filename, result.Data)
	if err != nil {
		return nil, MergeOutput{}, err
	}

	return nil, MergeOutput{
		Path:   path,
		FileID: result.Record.ID,
		Pages:  result.Record.TotalPages,
	}, nil
}

// writeDocument writes a produced document under dir and returns the path.
func writeDocument(dir, filename string, data []byte) (string, error) {
	path := filename
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		path = filepath.Join(dir, filename)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
