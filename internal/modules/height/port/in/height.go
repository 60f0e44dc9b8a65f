package in

import (
	"context"

	"skytools/internal/modules/height/dto"
)

type Usecase interface {
	Snapshot(ctx context.Context, input dto.SnapshotInput) (dto.SnapshotOutput, error)
	Range(ctx context.Context, input dto.SnapshotInput) (dto.RangeOutput, error)
}
