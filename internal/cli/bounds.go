package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBoundsCommand creates the bounds command.
func NewBoundsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bounds <scene.yaml>",
		Short: "Print the swept motion bounds of every entity",
		Long: `Load a scene, sample each entity's motion over its keyframe interval
and print the world box enclosing the whole trajectory, followed by the
box around the entire scene.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBounds(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runBounds(opts *RootOptions, scenePath string, cmd *cobra.Command) error {
	reg, err := openScene(cmd.Context(), opts, scenePath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		report := ReportJSON{}
		for _, e := range reg.Entities() {
			wb, err := reg.WorldBounds(e.Id())
			if err != nil {
				return err
			}
			report.Entities = append(report.Entities, EntityJSON{
				Name:   e.Name(),
				Still:  e.IsStill(),
				Bounds: toBoxJSON(wb),
			})
		}
		scene := toBoxJSON(reg.Bounds())
		report.Scene = &scene
		return writeJSON(w, report)
	}

	for _, e := range reg.Entities() {
		wb, err := reg.WorldBounds(e.Id())
		if err != nil {
			return err
		}
		kind := "animated"
		if e.IsStill() {
			kind = "static"
		}
		fmt.Fprintf(w, "%-10s %-8s %s\n", e.Name(), kind, formatBox(wb))
	}
	fmt.Fprintf(w, "%-10s %-8s %s\n", "scene", "", formatBox(reg.Bounds()))
	return nil
}
