package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// CopyReport summarises one scope copied between backends.
type CopyReport struct {
	Modules int
	Items   int
}

// Copy replicates every module of scope from src into dst. Existing
// modules in dst are overwritten; modules only present in dst are kept.
func Copy(ctx context.Context, src, dst Backend, scope snowflake.ID) (CopyReport, error) {
	var report CopyReport

	names, err := src.List(ctx, scope)
	if err != nil {
		return report, fmt.Errorf("failed to list source modules: %w", err)
	}

	for _, name := range names {
		items, err := src.Read(ctx, scope, name)
		if err != nil {
			return report, fmt.Errorf("failed to read %q: %w", name, err)
		}
		if err = dst.Create(ctx, scope, name); err != nil && !errors.Is(err, ErrModuleExists) {
			return report, fmt.Errorf("failed to create %q: %w", name, err)
		}
		if err = dst.Write(ctx, scope, name, items); err != nil {
			return report, fmt.Errorf("failed to write %q: %w", name, err)
		}
		report.Modules++
		report.Items += len(items)
	}
	return report, nil
}
