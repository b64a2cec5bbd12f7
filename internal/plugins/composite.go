package plugins

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Composite merges several sources into one inventory. Sources are queried
// concurrently; the order they were given decides which one wins in Open when
// two sources report the same name.
type Composite struct {
	sources []Source
}

// NewComposite creates an inventory over the given sources
func NewComposite(sources ...Source) *Composite {
	return &Composite{sources: sources}
}

// Plugins returns a snapshot of every source's records sorted by name, then
// by type so bundled entries come first. Any failing source fails the call.
func (c *Composite) Plugins(ctx context.Context) ([]Record, error) {
	results := make([][]Record, len(c.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range c.sources {
		g.Go(func() error {
			records, err := src.Plugins(gctx)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list plugins: %w", err)
	}

	var all []Record
	for _, records := range results {
		all = append(all, records...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].Type < all[j].Type
	})
	return all, nil
}

// Open loads the plugin from the first source that knows it, along with the
// record describing it.
func (c *Composite) Open(ctx context.Context, name string) (Plugin, Record, error) {
	for _, src := range c.sources {
		records, err := src.Plugins(ctx)
		if err != nil {
			return nil, Record{}, err
		}
		for _, r := range records {
			if r.Name != name {
				continue
			}
			p, err := src.Open(ctx, name)
			if err != nil {
				return nil, Record{}, err
			}
			return p, r, nil
		}
	}
	return nil, Record{}, fmt.Errorf("plugin '%s': %w", name, ErrPluginNotFound)
}

// IsNotFound reports whether err means the plugin is unknown.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPluginNotFound)
}
