package primary

import (
	"context"

	"github.com/example/wealthdesk/internal/core/allocation"
)

// AllocationService defines the primary port for allocation target editing.
// Edits mutate the loaded tree and persist the edited node immediately.
type AllocationService interface {
	// Load reconciles positions, FX rates and targets into a fresh tree.
	Load(ctx context.Context) (*AllocationView, error)

	// View returns the current tree with freshly computed validation.
	View(ctx context.Context) (*AllocationView, error)

	// SetTargetPercent edits a node's percentage and persists that node.
	SetTargetPercent(ctx context.Context, nodeID string, pct float64) (*allocation.Asset, error)

	// SetTargetChf edits a node's CHF amount and persists that node.
	SetTargetChf(ctx context.Context, nodeID string, chf float64) (*allocation.Asset, error)

	// SetMode stores a node's entry mode in the user preferences.
	SetMode(ctx context.Context, nodeID string, mode allocation.Mode) error

	// PersistAll writes every node of the current tree and returns the number written.
	PersistAll(ctx context.Context) (int, error)
}

// AllocationView is a reconciled tree plus its validation.
type AllocationView struct {
	Tree       *allocation.Tree
	Validation allocation.Validation
}
