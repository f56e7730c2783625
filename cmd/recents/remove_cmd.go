package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/recents/internal/log"
	"github.com/raphi011/recents/internal/output"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <key>...",
		Short:   "Remove items from the recent items list",
		Aliases: []string{"remove"},
		GroupID: GroupCore,
		Args:    cobra.MinimumNArgs(1),
		Long: `Remove items by key from the recent items list of every installation.

Keys are shown by "recents list --json".`,
		Example: `  recents rm 'C:\src\App\App.sln'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			l := log.FromContext(ctx)

			svc, err := loadService(ctx)
			if err != nil {
				return err
			}

			var missing int
			for _, key := range args {
				removal, err := svc.Remove(ctx, key)
				if isNotFound(err) {
					l.Warnf("%v", err)
					missing++
					continue
				}
				if err != nil {
					return err
				}
				if err := reportPush(ctx, removal.Push); err != nil {
					return err
				}
				out.Printf("Removed %q from the recent items list\n", key)
			}

			if missing == len(args) {
				return fmt.Errorf("no matching entries")
			}
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   "Remove every item from the recent items list",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Remove every item from the recent items list of every installation.

Use "recents backup" first to be able to undo this with "recents restore".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := loadService(ctx)
			if err != nil {
				return err
			}

			removal, err := svc.RemoveAll(ctx)
			if err != nil {
				return err
			}
			if err := reportPush(ctx, removal.Push); err != nil {
				return err
			}

			output.FromContext(ctx).Printf("Removed all %s\n", plural(removal.Count(), "entry", "entries"))
			return nil
		},
	}
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clean",
		Short:   "Remove items whose path no longer exists",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			svc, err := loadService(ctx)
			if err != nil {
				return err
			}

			removal, err := svc.RemoveMissing(ctx)
			if err != nil {
				return err
			}
			if err := reportPush(ctx, removal.Push); err != nil {
				return err
			}

			for _, a := range removal.Removed {
				log.FromContext(ctx).Debug("removed missing", "path", a.FullPath())
			}
			out.Printf("Removed %s\n", plural(removal.Count(), "entry", "entries"))
			return nil
		},
	}
}
