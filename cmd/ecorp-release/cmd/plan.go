package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/drkarl/live-wallpaper-ecorp/internal/domain/release"
	"github.com/drkarl/live-wallpaper-ecorp/internal/logger"
	"github.com/drkarl/live-wallpaper-ecorp/internal/service/pipeline"
)

// planCmd prints what build would do without touching the filesystem.
var planCmd = &cobra.Command{
	Use:   "plan [platform...]",
	Short: "Show the selected platforms and their resolved build options",
	RunE: func(cmd *cobra.Command, args []string) error {
		options, err := pipelineOptions(args)
		if err == nil {
			var plan *pipeline.Plan

			if plan, err = pipeline.NewPlan(options); err == nil {
				printPlan(cmd.OutOrStdout(), options, plan)
				return nil
			}
		}

		logger.ErrorKV(cmd.Context(), release.LabelOf(err), "error", err)

		return err
	},
}

func printPlan(w io.Writer, options *pipeline.Options, plan *pipeline.Plan) {
	title := color.New(color.FgCyan, color.Bold)
	key := color.New(color.FgHiBlack)
	skipped := color.New(color.FgYellow)

	desc := options.Descriptor

	title.Fprintf(w, "%s %s\n", desc.Build.ProductName, desc.AppVersion())
	fmt.Fprintf(w, "%s %s\n", key.Sprint("host:"), plan.Host)
	fmt.Fprintf(w, "%s %s\n", key.Sprint("staging:"), desc.StagingDir())
	fmt.Fprintf(w, "%s %s\n", key.Sprint("release:"), desc.ReleaseDir())

	for i, platform := range plan.Platforms {
		fmt.Fprintln(w)
		title.Fprintln(w, platform)

		if plan.Options[i].Kind() == release.Unsupported {
			skipped.Fprintln(w, "  packaged only, no deployer for this platform")
		}

		for _, pair := range plan.Summary(i) {
			fmt.Fprintf(w, "  %s %s\n", key.Sprintf("%-9s", pair[0]), pair[1])
		}
	}
}
