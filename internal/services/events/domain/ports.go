package domain

import "context"

// SourcePort streams raw records out of a persisted tabular source.
// The full log is read once before reconstruction begins; fn is invoked
// per record in source order. A non-nil error from fn aborts the read
type SourcePort interface {
	Read(ctx context.Context, fn func(RawRecord) error) error
}

// NormalizerPort turns raw records into per-user ordered event sequences
type NormalizerPort interface {
	Normalize(ctx context.Context, src SourcePort) (Stream, NormalizeStats, error)
}
