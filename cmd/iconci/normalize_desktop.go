package main

import (
	"context"

	"github.com/spf13/cobra"

	"iconci/internal/normalize"
	"iconci/internal/report"
)

var normalizeDesktopCmd = &cobra.Command{
	Use:   "normalize-desktop",
	Short: "Optimize, format and license-stamp desktop SVG icons",
	Long: `Normalize every SVG matched by the files glob: strip presentation
attributes, infer missing dimensions, add context fill, format and prepend
the license header. Files are rewritten only when their content changes.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{boundaryAnnotation: "true"},
	RunE:        runNormalizeDesktop,
}

func init() {
	normalizeDesktopCmd.Flags().String("glob", "", "glob selecting candidate files (input: files)")
	normalizeDesktopCmd.Flags().Bool("strict", false, "also strip clip-rule and fill-rule (input: strict)")
	normalizeDesktopCmd.Flags().Bool("check", false, "report files that would change without writing them (input: check)")
}

func runNormalizeDesktop(cmd *cobra.Command, args []string) error {
	globFlag, err := cmd.Flags().GetString("glob")
	if err != nil {
		return err
	}
	strictFlag, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return err
	}
	checkFlag, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}

	return runOperation(cmd, "normalize-desktop", func(ctx context.Context, rep *report.Report, rc *runContext) error {
		pattern, err := rc.src.Required("files", globFlag, rc.manifest.Desktop.Glob)
		if err != nil {
			return err
		}
		strict, err := rc.src.Bool("strict", cmd.Flags().Changed("strict"), strictFlag, rc.manifest.Desktop.Strict)
		if err != nil {
			return err
		}
		check, err := rc.src.Bool("check", cmd.Flags().Changed("check"), checkFlag, false)
		if err != nil {
			return err
		}
		timer, err := newTimer(cmd)
		if err != nil {
			return err
		}

		pipeline := normalize.Desktop(strict, normalize.Options{
			Check:  check,
			Timer:  timer,
			Logger: logger.Named("desktop"),
		})
		return runBatch(ctx, cmd, batchJob{
			name:     "normalize-desktop",
			pattern:  pattern,
			pipeline: pipeline,
			check:    check,
			emoji:    ":desktop_computer:",
			noun:     "desktop SVGs",
			timer:    timer,
		}, rep)
	})
}
