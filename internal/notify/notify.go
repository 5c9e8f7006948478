// Package notify wraps item digests in breaking-news notifications.
//
// Static is resolved per concrete item type at compile time and can only be
// applied to homogeneous values. Dynamic goes through the content.Summary
// method table and accepts any implementation, including ones defined outside
// this module. Process drives Dynamic across a heterogeneous batch.
package notify

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/newsflash/internal/content"
)

// Prefix starts every notification.
const Prefix = "Breaking news! "

// Static returns the notification for a single concrete item.
func Static[T content.Summary](item T) string {
	return Prefix + item.Summarize()
}

// StaticAll applies Static to a homogeneous slice, keeping order.
func StaticAll[T content.Summary](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, Static(item))
	}
	return out
}

// Dynamic returns the notification for any item through its interface value.
func Dynamic(item content.Summary) string {
	return Prefix + item.Summarize()
}

// Process returns one notification per batch element, in batch order.
func Process(batch []content.Summary) []string {
	out := make([]string, 0, len(batch))
	for _, item := range batch {
		out = append(out, Dynamic(item))
	}
	return out
}

// ProcessParallel is Process spread over at most workers goroutines. Results
// are written by original index, so the output equals Process(batch). A
// workers value below 2 falls back to Process. The only error is ctx's.
func ProcessParallel(ctx context.Context, batch []content.Summary, workers int) ([]string, error) {
	if workers < 2 || len(batch) < 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Process(batch), nil
	}

	out := make([]string, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range batch {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = Dynamic(item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
