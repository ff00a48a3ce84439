package commands

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/shelterhq/refuge/catalog"
	"github.com/shelterhq/refuge/indexer"
)

func tableNames() []string {
	names := make([]string, 0, len(catalog.All()))
	for _, desc := range catalog.All() {
		names = append(names, desc.Table)
	}
	return names
}

// NewReindexCommand creates the reindex command
func NewReindexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex [all|" + strings.Join(tableNames(), "|") + "]",
		Short: "Rebuild one search index, or all of them, from the record store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			table := args[0]

			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.cleanup()

			var targets []*indexer.Synchronizer
			if table == "all" {
				targets = a.syncs
			} else {
				for _, syn := range a.syncs {
					if syn.Descriptor().Table == table {
						targets = append(targets, syn)
					}
				}
				if len(targets) == 0 {
					return fmt.Errorf("unknown table %q, expected all|%s", table, strings.Join(tableNames(), "|"))
				}
			}

			// Distinct indices never share documents, so rebuilds run
			// concurrently.
			var wg sync.WaitGroup
			errs := make(chan error, len(targets))
			for _, syn := range targets {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := syn.RebuildAll(ctx); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				return err
			}
			return nil
		},
	}
}
