package cli

import (
	"context"

	"github.com/pagedeck/pagedeck-cli/internal/core/domain"
)

// resolveFile returns the record for an explicit ID, or the selected
// record when id is empty.
func resolveFile(ctx context.Context, id string) (*domain.FileRecord, error) {
	if id != "" {
		return workspaceService.Get(ctx, id)
	}
	return workspaceService.Selected(ctx)
}
