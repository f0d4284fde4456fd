package app

import (
	"context"
	"errors"
	"log/slog"
)

// closers runs registered cleanup functions in reverse registration order.
type closers struct {
	log *slog.Logger
	fns []namedCloser
}

type namedCloser struct {
	name string
	fn   func(ctx context.Context) error
}

func (c *closers) add(name string, fn func(ctx context.Context) error) {
	c.fns = append(c.fns, namedCloser{name: name, fn: fn})
}

// closeAll calls every closer even if earlier ones fail and joins the errors.
func (c *closers) closeAll(ctx context.Context) error {
	var errs []error
	for i := len(c.fns) - 1; i >= 0; i-- {
		nc := c.fns[i]
		if err := nc.fn(ctx); err != nil {
			c.log.ErrorContext(ctx, "shutdown error", slog.String("component", nc.name), slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		c.log.DebugContext(ctx, "closed", slog.String("component", nc.name))
	}
	return errors.Join(errs...)
}
