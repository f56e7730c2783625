package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/recents/internal/config"
	"github.com/raphi011/recents/internal/log"
	"github.com/raphi011/recents/internal/output"
	"github.com/raphi011/recents/internal/rank"
	"github.com/raphi011/recents/internal/ui/static"
	"github.com/raphi011/recents/internal/ui/styles"
)

// EntryDisplay holds a ranked entry for JSON output
type EntryDisplay struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Kind         string    `json:"kind"`
	Branch       string    `json:"branch,omitempty"`
	LastAccessed time.Time `json:"last_accessed"`
	Favorite     bool      `json:"favorite,omitempty"`
	Score        int       `json:"score"`
	Highlights   []int     `json:"highlights,omitempty"`
}

// ListDisplay is the JSON document printed by list --json
type ListDisplay struct {
	Opener  string         `json:"opener"`
	Entries []EntryDisplay `json:"entries"`
}

func newListCmd() *cobra.Command {
	var (
		jsonOutput bool
		limit      int
		path       bool
		branch     bool
		newest     bool
		copyPath   bool
	)

	cmd := &cobra.Command{
		Use:     "list [query]",
		Short:   "Search recent projects and files",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Long: `Search the recent items list.

The query is fuzzy-matched against each item's name. Prefix it with "p:"
to only show projects and solutions or with "f:" to only show files and
folders. Without a query every item is listed, least recently opened first.

--path and --branch blend full-path and git branch matches into the score.`,
		Example: `  recents list                # List every item
  recents list p:api          # Projects matching "api"
  recents list f:             # Only files and folders
  recents list --branch feat  # Also match git branches
  recents list -c api         # Copy the best match's path
  recents list --json         # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			// Flags override the configured search mode
			cfg := *configFrom(ctx)
			if cmd.Flags().Changed("path") {
				cfg.Search.Path = path
			}
			if cmd.Flags().Changed("branch") {
				cfg.Search.Branch = branch
			}
			if cmd.Flags().Changed("newest") && newest {
				cfg.Search.BrowseOrder = config.BrowseNewest
			}
			ctx = config.WithConfig(ctx, &cfg)

			svc, err := loadService(ctx)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			res, err := svc.Query(ctx, query)
			if err != nil {
				return err
			}

			results := res.Results
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}
			log.FromContext(ctx).Debug("query", "text", query, "matched", len(res.Results), "opener", res.Opener.String())

			if jsonOutput {
				doc := ListDisplay{Opener: res.Opener.String(), Entries: entryDisplays(results)}
				return out.JSON(doc)
			}

			if len(results) == 0 {
				out.Println("No recent items found")
				return nil
			}

			if copyPath {
				if err := clipboard.WriteAll(results[0].Entry.FullPath()); err != nil {
					log.FromContext(ctx).Warnf("failed to copy to clipboard: %v", err)
				}
			}

			table := static.RenderEntries(results, homeDir(), styles.ColorEnabled(out.Writer()))
			_, err = fmt.Fprint(styles.Writer(out.Writer()), table)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N items (0 = all)")
	cmd.Flags().BoolVar(&path, "path", false, "Blend full-path matches into the score")
	cmd.Flags().BoolVar(&branch, "branch", false, "Blend git branch matches into the score")
	cmd.Flags().BoolVarP(&copyPath, "copy", "c", false, "Copy the best match's path to the clipboard")
	cmd.Flags().BoolVar(&newest, "newest", false, "List most recently opened first when there is no query")

	return cmd
}

func entryDisplays(results []rank.Result) []EntryDisplay {
	display := make([]EntryDisplay, len(results))
	for i, r := range results {
		e := r.Entry
		d := EntryDisplay{
			Key:          e.Key,
			Name:         e.Name(),
			Path:         e.FullPath(),
			Kind:         e.Kind().String(),
			LastAccessed: e.LastAccessed(),
			Favorite:     e.IsFavorite(),
			Score:        r.Score,
			Highlights:   r.Highlights,
		}
		if e.HasBranch() {
			d.Branch = e.GitBranch
		}
		display[i] = d
	}
	return display
}
