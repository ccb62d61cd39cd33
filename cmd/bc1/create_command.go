package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bc1/internal/bundle"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		audioPath      string
		audioFormat    string
		transcriptPath string
		metadataPath   string
		demo           bool
	)

	cmd := &cobra.Command{
		Use:   "create <output.bc1>",
		Short: "Assemble a bundle from audio and transcript files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := args[0]
			writer := bundle.NewWriter(ctx.loggerValue())

			if demo {
				if audioPath != "" || transcriptPath != "" || metadataPath != "" {
					return errors.New("--demo cannot be combined with input files")
				}
				if err := writer.CreateFile(output,
					bundle.DemoAudioWAV(3.0), "wav",
					bundle.DemoSegments(), bundle.DemoMetadata()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote demo bundle to %s\n", output)
				return nil
			}

			if audioPath == "" {
				return errors.New("--audio is required (or use --demo)")
			}
			audio, err := os.ReadFile(audioPath)
			if err != nil {
				return fmt.Errorf("read audio: %w", err)
			}
			format := audioFormat
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(audioPath)), ".")
			}
			if format == "" {
				return errors.New("cannot infer audio format; pass --format")
			}

			var segments []bundle.TranscriptSegment
			if transcriptPath != "" {
				raw, err := os.ReadFile(transcriptPath)
				if err != nil {
					return fmt.Errorf("read transcript: %w", err)
				}
				segments = bundle.ParseTranscript(raw, ctx.loggerValue())
			}

			var metadata map[string]any
			if metadataPath != "" {
				raw, err := os.ReadFile(metadataPath)
				if err != nil {
					return fmt.Errorf("read metadata: %w", err)
				}
				if err := json.Unmarshal(raw, &metadata); err != nil {
					return fmt.Errorf("parse metadata: %w", err)
				}
			}

			if err := writer.CreateFile(output, audio, format, segments, metadata); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d segments)\n", output, len(segments))
			return nil
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "Audio payload file")
	cmd.Flags().StringVar(&audioFormat, "format", "", "Audio format label (defaults to the audio file extension)")
	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "Transcript file, one JSON record per line")
	cmd.Flags().StringVar(&metadataPath, "metadata", "", "Metadata JSON file")
	cmd.Flags().BoolVar(&demo, "demo", false, "Generate a self-contained sample bundle")

	return cmd
}
