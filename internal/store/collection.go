package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inovacc/fixedphrase/internal/kv"
)

// collection is an ordered slice of T persisted as one JSON array under key.
type collection[T any] struct {
	kv     kv.Store
	key    Key
	keyOf  func(T) (string, error)
	limit  int
	logger *slog.Logger
}

// load reads the stored slice. Backend failures are returned; an undecodable
// record is logged and reported as empty.
func (c collection[T]) load(ctx context.Context) ([]T, error) {
	data, ok, err := c.kv.Get(ctx, string(c.key))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.key, err)
	}

	if !ok {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("discarding corrupt record", "key", string(c.key), "error", err)

		return nil, nil
	}

	return items, nil
}

func (c collection[T]) list(ctx context.Context) []T {
	items, err := c.load(ctx)
	if err != nil {
		c.logger.Warn("reading record failed, treating as empty", "key", string(c.key), "error", err)
	}

	if items == nil {
		return []T{}
	}

	return items
}

// add removes every stored item sharing item's key, prepends item and
// writes the collection back.
func (c collection[T]) add(ctx context.Context, item T) error {
	key, err := c.keyOf(item)
	if err != nil {
		return err
	}

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	out := make([]T, 0, len(items)+1)
	out = append(out, item)

	for _, existing := range items {
		k, err := c.keyOf(existing)
		if err != nil {
			c.logger.Warn("dropping unreadable entry", "key", string(c.key), "error", err)
			continue
		}

		if k == key {
			continue
		}

		out = append(out, existing)
	}

	if c.limit > 0 && len(out) > c.limit {
		out = out[:c.limit]
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}

	if err := c.kv.Set(ctx, string(c.key), data); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}

	c.logger.Debug("record updated", "key", string(c.key), "count", len(out))

	return nil
}
