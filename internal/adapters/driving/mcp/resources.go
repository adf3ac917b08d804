package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the URI scheme for pagedeck resources.
const uriScheme = "pagedeck://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the workspace file list.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "files",
		Name:        "files",
		Description: "List of the workspace files and their page order",
		MIMEType:    "application/json",
	}, s.handleFilesResource)

	// Template for a page preview image.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "files/{fileId}/pages/{pageNumber}/preview",
		Name:        "page-preview",
		Description: "Preview image of one page, as a PNG data URI",
		MIMEType:    "text/plain",
	}, s.handlePreviewResource)
}

// handleFilesResource returns the workspace file list.
func (s *Server) handleFilesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Workspace.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	type fileInfo struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Pages     int    `json:"pages"`
		PageOrder []int  `json:"page_order"`
	}

	infos := make([]fileInfo, len(records))
	for i := range records {
		order := make([]int, len(records[i].Pages))
		for j, p := range records[i].Pages {
			order[j] = p.PageNumber
		}
		infos[i] = fileInfo{
			ID:        records[i].ID,
			Name:      records[i].Name,
			Pages:     records[i].TotalPages,
			PageOrder: order,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling files: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePreviewResource returns the preview of one page.
func (s *Server) handlePreviewResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract IDs from URI: pagedeck://files/{fileId}/pages/{pageNumber}/preview
	path := strings.TrimPrefix(req.Params.URI, uriScheme)
	parts := strings.Split(path, "/")
	if len(parts) != 5 || parts[0] != "files" || parts[2] != "pages" || parts[4] != "preview" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	fileID := parts[1]
	pageNumber := parts[3]

	rec, err := s.ports.Workspace.Get(ctx, fileID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	for _, p := range rec.Pages {
		if fmt.Sprint(p.PageNumber) != pageNumber {
			continue
		}
		if p.Thumb == "" {
			return nil, fmt.Errorf("page %s of %s has no preview yet", pageNumber, rec.Name)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     p.Thumb,
			}},
		}, nil
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}
