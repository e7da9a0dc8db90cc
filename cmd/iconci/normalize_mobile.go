package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"iconci/internal/normalize"
	"iconci/internal/report"
)

var normalizeMobileCmd = &cobra.Command{
	Use:   "normalize-mobile",
	Short: "Format and license-stamp mobile SVG or XML icons",
	Long: `Normalize every file of the selected kind matched by the files glob.
Mobile icons keep their fill and size; they only gain formatting and the
license header.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{boundaryAnnotation: "true"},
	RunE:        runNormalizeMobile,
}

func init() {
	normalizeMobileCmd.Flags().String("glob", "", "glob selecting candidate files (input: files)")
	normalizeMobileCmd.Flags().String("filetype", "", "file kind to normalize, svg or xml (input: file_type)")
	normalizeMobileCmd.Flags().Bool("check", false, "report files that would change without writing them (input: check)")
}

func runNormalizeMobile(cmd *cobra.Command, args []string) error {
	globFlag, err := cmd.Flags().GetString("glob")
	if err != nil {
		return err
	}
	filetypeFlag, err := cmd.Flags().GetString("filetype")
	if err != nil {
		return err
	}
	checkFlag, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}

	return runOperation(cmd, "normalize-mobile", func(ctx context.Context, rep *report.Report, rc *runContext) error {
		pattern, err := rc.src.Required("files", globFlag, rc.manifest.Mobile.Glob)
		if err != nil {
			return err
		}
		filetype, err := rc.src.Required("file_type", filetypeFlag, rc.manifest.Mobile.Filetype)
		if err != nil {
			return err
		}
		kind, err := normalize.ParseKind(filetype)
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

		if kind == normalize.KindSVG {
			logger.Warn("mobile pipeline formats the original text; optimizer output is only used for validation")
		}
		pipeline := normalize.Mobile(kind, normalize.Options{
			Check:  check,
			Timer:  timer,
			Logger: logger.Named("mobile"),
		})
		return runBatch(ctx, cmd, batchJob{
			name:     "normalize-mobile",
			pattern:  pattern,
			pipeline: pipeline,
			check:    check,
			emoji:    ":iphone:",
			noun:     fmt.Sprintf("mobile %s files", strings.ToUpper(string(kind))),
			timer:    timer,
		}, rep)
	})
}
