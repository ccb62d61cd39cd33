package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bc1/internal/bundle"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var (
		atSeconds   float64
		jsonOutput  bool
		maxSegments int
	)

	cmd := &cobra.Command{
		Use:   "inspect <bundle.bc1>",
		Short: "Show a bundle's manifest, segments, and metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := ctx.newLoader()
			if err != nil {
				return err
			}
			b, err := loader.Open(args[0])
			if err != nil {
				return err
			}
			defer b.Cleanup()

			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("at") {
				seg := b.SegmentAt(atSeconds)
				if seg == nil {
					return fmt.Errorf("no segment covers %.3fs", atSeconds)
				}
				if jsonOutput {
					return json.NewEncoder(out).Encode(seg)
				}
				fmt.Fprintf(out, "[%.2f-%.2f] %s: %s\n", seg.StartTime, seg.EndTime, seg.Speaker, seg.Text)
				return nil
			}

			if jsonOutput {
				return json.NewEncoder(out).Encode(inspectPayload(b))
			}

			m := b.Manifest
			fmt.Fprintln(out, kvTable([][2]string{
				{"Version", m.Version},
				{"Generation", strconv.Itoa(m.Generation())},
				{"Audio format", m.AudioFormat},
				{"Transcript format", m.TranscriptFormat},
				{"Segments", strconv.Itoa(len(b.Segments))},
				{"Metadata", yesNo(b.Metadata != nil)},
				{"Checksums match", yesNo(b.ChecksumOK)},
			}))

			if len(b.Segments) > 0 {
				rows := make([][]string, 0, len(b.Segments))
				for i, seg := range b.Segments {
					if maxSegments > 0 && i >= maxSegments {
						fmt.Fprintf(out, "... %d more segments\n", len(b.Segments)-maxSegments)
						break
					}
					rows = append(rows, []string{
						fmt.Sprintf("%.2f", seg.StartTime),
						fmt.Sprintf("%.2f", seg.EndTime),
						seg.Speaker,
						seg.Text,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Start", "End", "Speaker", "Text"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
				))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&atSeconds, "at", 0, "Print only the segment covering this timestamp in seconds")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of tables")
	cmd.Flags().IntVar(&maxSegments, "max-segments", 20, "Limit the segment listing (0 for all)")

	return cmd
}

func inspectPayload(b *bundle.Bundle) map[string]any {
	return map[string]any{
		"manifest":    b.Manifest,
		"generation":  b.Manifest.Generation(),
		"segments":    b.Segments,
		"metadata":    b.Metadata,
		"checksum_ok": b.ChecksumOK,
	}
}
