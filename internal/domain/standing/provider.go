package standing

import "context"

// Provider serves an authoritative league table from an upstream source.
type Provider interface {
	FetchTable(ctx context.Context, season string) ([]Entry, error)
}
