package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bc1/internal/bundle"
	"bc1/internal/fileutil"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "extract <bundle.bc1>",
		Short: "Unpack a bundle's audio, transcript, and metadata to a directory",
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

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			audioOut := filepath.Join(outDir, "audio"+filepath.Ext(b.AudioFile))
			if err := fileutil.CopyFileVerified(b.AudioFile, audioOut); err != nil {
				return fmt.Errorf("extract audio: %w", err)
			}
			written := []string{audioOut}

			if len(b.Segments) > 0 {
				transcript, err := bundle.EncodeTranscript(b.Segments)
				if err != nil {
					return err
				}
				transcriptOut := filepath.Join(outDir, "transcript.jsonl")
				if err := os.WriteFile(transcriptOut, transcript, 0o644); err != nil {
					return fmt.Errorf("extract transcript: %w", err)
				}
				written = append(written, transcriptOut)
			}

			if b.Metadata != nil {
				data, err := json.MarshalIndent(b.Metadata, "", "  ")
				if err != nil {
					return fmt.Errorf("encode metadata: %w", err)
				}
				metadataOut := filepath.Join(outDir, "metadata.json")
				if err := os.WriteFile(metadataOut, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("extract metadata: %w", err)
				}
				written = append(written, metadataOut)
			}

			out := cmd.OutOrStdout()
			for _, path := range written {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Destination directory")

	return cmd
}
