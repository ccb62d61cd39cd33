package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"bc1/internal/catalog"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "index [directory]",
		Short: "Scan a directory tree for bundles and record them in the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			store, release, err := openStoreLocked(cfg.Paths.CatalogDB)
			if err != nil {
				return err
			}
			defer release()

			if list {
				records, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				printRecords(out, records)
				return nil
			}

			if len(args) == 0 {
				return errors.New("a directory to scan is required (or pass --list)")
			}

			loader, err := ctx.newLoader()
			if err != nil {
				return err
			}
			scanner := catalog.NewScanner(store, loader, cfg.Index.Parallelism, ctx.loggerValue())
			summary, err := scanner.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Indexed %d, skipped %d, failed %d\n",
				summary.Indexed, summary.Skipped, summary.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List indexed bundles instead of scanning")

	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed transcripts for a phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg.Paths.CatalogDB)
			if err != nil {
				return err
			}
			defer store.Close()

			hits, err := store.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintln(out, "No matches")
				return nil
			}

			rows := make([][]string, 0, len(hits))
			for _, h := range hits {
				rows = append(rows, []string{
					h.Title,
					fmt.Sprintf("%.2f", h.StartTime),
					h.Speaker,
					h.Text,
					h.BundlePath,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "At", "Speaker", "Text", "Bundle"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum number of results")

	return cmd
}

// openStoreLocked opens the catalog behind an exclusive file lock so
// concurrent index runs cannot interleave writes.
func openStoreLocked(dbPath string) (*catalog.Store, func(), error) {
	lock := flock.New(dbPath + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return nil, nil, errors.New("another bc1 index run holds the catalog lock")
	}

	store, err := catalog.Open(dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, nil, err
	}
	release := func() {
		_ = store.Close()
		_ = lock.Unlock()
	}
	return store, release, nil
}

func printRecords(out io.Writer, records []catalog.Record) {
	if len(records) == 0 {
		fmt.Fprintln(out, "Catalog is empty")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Title,
			fmt.Sprintf("%.1fs", rec.DurationSeconds),
			strconv.Itoa(rec.SegmentCount),
			yesNo(rec.ChecksumOK),
			strconv.Itoa(rec.Generation),
			rec.Path,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "Duration", "Segments", "Checksums", "Gen", "Path"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight, alignLeft},
	))
}
