package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var (
		audioOnly  bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "validate <bundle.bc1|audio file>",
		Short: "Validate a bundle or a standalone audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := ctx.newChecker()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if audioOnly {
				report := checker.ValidateAudio(cmd.Context(), args[0])
				if jsonOutput {
					if err := json.NewEncoder(out).Encode(report); err != nil {
						return err
					}
				} else {
					fmt.Fprintln(out, kvTable([][2]string{
						{"Valid", yesNo(report.Valid)},
						{"Error", report.Error},
						{"Duration", fmt.Sprintf("%.2fs", report.Duration)},
						{"Sample rate", strconv.Itoa(report.SampleRate)},
						{"Channels", strconv.Itoa(report.Channels)},
						{"Codec", report.Codec},
						{"Size", strconv.FormatInt(report.Size, 10)},
					}))
				}
				if !report.Valid {
					return errValidationFailed
				}
				return nil
			}

			report := checker.ValidateBundle(cmd.Context(), args[0])
			if jsonOutput {
				if err := json.NewEncoder(out).Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, kvTable([][2]string{
					{"Valid", yesNo(report.Valid)},
					{"Error", report.Error},
					{"Total size", strconv.FormatInt(report.TotalSize, 10)},
					{"Audio size", strconv.FormatInt(report.AudioSize, 10)},
					{"Segments", strconv.Itoa(report.SegmentCount)},
					{"Metadata", yesNo(report.MetadataPresent)},
					{"Checksums match", yesNo(report.ChecksumOK)},
					{"Inverted segments", strconv.Itoa(report.InvertedSegments)},
					{"Audio duration", fmt.Sprintf("%.2fs", report.Audio.Duration)},
					{"Audio codec", report.Audio.Codec},
				}))
			}
			if !report.Valid {
				return errValidationFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&audioOnly, "audio", false, "Treat the argument as a bare audio file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of tables")

	return cmd
}
