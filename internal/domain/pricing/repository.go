package pricing

import "context"

// Repository loads the persisted custom price rows
type Repository interface {
	ListMonthly(ctx context.Context) ([]Entry, error)
	ListDaily(ctx context.Context) ([]Entry, error)
}

// Writer stores custom price rows, replacing the price of an existing key
type Writer interface {
	UpsertMonthly(ctx context.Context, e Entry) error
	UpsertDaily(ctx context.Context, e Entry) error
}
