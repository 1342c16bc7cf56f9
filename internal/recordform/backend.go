package recordform

import "context"

// RecordAPI is the create and update surface of a typed collection.
type RecordAPI[R any] interface {
	Create(ctx context.Context, payload map[string]any) (R, error)
	Update(ctx context.Context, id string, diff map[string]any) (R, error)
}

type apiBackend[R any] struct {
	api RecordAPI[R]
}

// APIBackend adapts a typed collection to Backend.
func APIBackend[R any](api RecordAPI[R]) Backend {
	return apiBackend[R]{api: api}
}

func (b apiBackend[R]) Create(ctx context.Context, payload map[string]any) error {
	_, err := b.api.Create(ctx, payload)
	return err
}

func (b apiBackend[R]) Update(ctx context.Context, id string, diff map[string]any) error {
	_, err := b.api.Update(ctx, id, diff)
	return err
}
