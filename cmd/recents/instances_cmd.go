package main

import (

	"github.com/spf13/cobra"

	"github.com/raphi011/recents/internal/output"
	"github.com/raphi011/recents/internal/ui/static"
)

func newInstancesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "instances",
		Short:   "List discovered IDE installations",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `List the IDE installations whose recent items lists are managed.

Installations come from the locator (locator_path) and the [[instances]]
tables of the config file. The installation marked with * opens items.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			cfg := configFrom(ctx)

			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			instances, err := svc.Instances(ctx)
			if err != nil {
				return err
			}

			if jsonOutput {
				return out.JSON(instances)
			}

			if len(instances) == 0 {
				out.Println("No installations found")
				return nil
			}

			out.Print(static.RenderInstances(instances, cfg.DefaultInstance))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
