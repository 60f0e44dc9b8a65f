package out

import (
	"context"

	"skytools/internal/modules/scanner/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Scan(ctx context.Context, manifest domain.Manifest, request domain.ScanRequest) (domain.ScanResult, error)
}
