// Package cmd implements the command-line interface for pipetube.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/pipetube-cli/pipetube/color"
	"github.com/pipetube-cli/pipetube/constant"
	"github.com/pipetube-cli/pipetube/key"
	"github.com/pipetube-cli/pipetube/log"
	"github.com/pipetube-cli/pipetube/sponsorblock"
	"github.com/pipetube-cli/pipetube/style"
	"github.com/pipetube-cli/pipetube/tui"
	"github.com/pipetube-cli/pipetube/util"
	"github.com/pipetube-cli/pipetube/version"
	"github.com/pipetube-cli/pipetube/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
	rootCmd.Flags().BoolP("continue", "c", false, "Open the watch history instead of the search prompt")
	rootCmd.Flags().BoolP("audio", "a", false, "Play audio only, without a video output")

	rootCmd.PersistentFlags().StringP("instance", "i", "", "API instance to query")
	lo.Must0(viper.BindPFlag(key.APIInstance, rootCmd.PersistentFlags().Lookup("instance")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Persist watched videos to the localized watch history")
	lo.Must0(viper.BindPFlag(key.HistoryWatchHistory, rootCmd.PersistentFlags().Lookup("write-history")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Cleanup of localized temporary files (player sockets) on startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the pipetube application.
var rootCmd = &cobra.Command{
	Use:   constant.Pipetube,
	Short: "A minimalist command-line client for federated video streaming",
	Long: style.Bold(constant.Pipetube) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A minimalist command-line client for federated video streaming"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		options := tui.Options{
			Continue: lo.Must(cmd.Flags().GetBool("continue")),
			Audio:    lo.Must(cmd.Flags().GetBool("audio")),
			Segments: sponsorblock.NewClient(),
		}
		handleErr(tui.Run(&options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
