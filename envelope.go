package plugdj

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/hilthontt/plugdj/internal/requestconfig"
	"github.com/hilthontt/plugdj/option"
)

const statusOK = "ok"

// envelope is the wrapper around every JSON body plug.dj returns.
type envelope[T any] struct {
	Status string          `json:"status"`
	Data   []T             `json:"data"`
	Meta   json.RawMessage `json:"meta,omitempty"`
}

func call[T any](ctx context.Context, method, path string, body any, base, opts []option.RequestOption) ([]T, error) {
	var env envelope[T]
	if err := requestconfig.ExecuteNewRequest(ctx, method, path, body, &env, slices.Concat(base, opts)...); err != nil {
		return nil, err
	}
	if env.Status != statusOK {
		return nil, fmt.Errorf("%w: %s %s: %q", ErrStatusNotOK, method, path, env.Status)
	}
	return env.Data, nil
}

// callOne is call for endpoints answering with exactly one element.
func callOne[T any](ctx context.Context, method, path string, body any, base, opts []option.RequestOption) (*T, error) {
	data, err := call[T](ctx, method, path, body, base, opts)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrEmptyResponse, method, path)
	}
	return &data[0], nil
}

// exec is call for endpoints whose data is not used.
func exec(ctx context.Context, method, path string, body any, base, opts []option.RequestOption) error {
	_, err := call[json.RawMessage](ctx, method, path, body, base, opts)
	return err
}
