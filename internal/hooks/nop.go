// Package hooks provides default Hooks implementations.
package hooks

import (
	"context"

	"github.com/arloliu/crewsched/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.CellChange) error                                = (*NopHooks)(nil).OnCellChanged
	_ func(context.Context, types.CellKey, types.ProjectID, types.ProjectID) error = (*NopHooks)(nil).OnConflict
	_ func(context.Context, types.CellKey, error) error                            = (*NopHooks)(nil).OnDropRejected
)

// NewNop creates a new no-op hooks implementation.
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnCellChanged:  h.OnCellChanged,
		OnConflict:     h.OnConflict,
		OnDropRejected: h.OnDropRejected,
	}
}

// Fill returns a copy of hooks with every nil callback replaced by its no-op.
//
// Callers may set only the hooks they care about; the Board then invokes all
// three without nil checks.
func Fill(hooks *types.Hooks) types.Hooks {
	out := NewNop()
	if hooks == nil {
		return out
	}
	if hooks.OnCellChanged != nil {
		out.OnCellChanged = hooks.OnCellChanged
	}
	if hooks.OnConflict != nil {
		out.OnConflict = hooks.OnConflict
	}
	if hooks.OnDropRejected != nil {
		out.OnDropRejected = hooks.OnDropRejected
	}

	return out
}

// OnCellChanged is a no-op implementation.
func (h *NopHooks) OnCellChanged(ctx context.Context, change types.CellChange) error {
	return nil
}

// OnConflict is a no-op implementation.
func (h *NopHooks) OnConflict(ctx context.Context, cell types.CellKey, previous, incoming types.ProjectID) error {
	return nil
}

// OnDropRejected is a no-op implementation.
func (h *NopHooks) OnDropRejected(ctx context.Context, cell types.CellKey, err error) error {
	return nil
}
