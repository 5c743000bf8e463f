package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pipetube-cli/pipetube/color"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/pipetube-cli/pipetube/query"
	"github.com/pipetube-cli/pipetube/style"
	"github.com/pipetube-cli/pipetube/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("limit", "l", 10, "Maximum number of results to display")
	searchCmd.Flags().BoolP("ids", "I", false, "Print bare video ids, one per line")
}

// searchCmd runs a remote search and prints the results without entering the
// interactive interface.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search videos and print the results",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			q       = strings.Join(args, " ")
			limit   = lo.Must(cmd.Flags().GetInt("limit"))
			idsOnly = lo.Must(cmd.Flags().GetBool("ids"))
		)

		result, err := piped.NewClient().Search(context.Background(), q)
		handleErr(err)

		_ = query.Remember(q, 1)

		items := result.Items
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}

		if idsOnly {
			for i := range items {
				cmd.Println(items[i].ID())
			}
			return
		}

		for i := range items {
			item := &items[i]
			fmt.Printf("%s %s\n  %s\n",
				style.Fg(color.Purple)(item.ID()),
				style.Bold(item.Title),
				style.Faint(fmt.Sprintf("%s • %s", item.UploaderName, util.FormatDuration(item.Duration*1000))),
			)
		}

		if len(items) == 0 {
			cmd.Println(style.Faint("no results"))
		}
	},
}
