package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pipetube-cli/pipetube/key"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/pipetube-cli/pipetube/player"
	"github.com/pipetube-cli/pipetube/queue"
	"github.com/pipetube-cli/pipetube/session"
	"github.com/pipetube-cli/pipetube/sponsorblock"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("playlist", "p", "", "Populate the queue from this playlist")
	playCmd.Flags().StringP("channel", "C", "", "Populate the queue from this channel's uploads")
	playCmd.Flags().StringP("at", "t", "", "Start playback at a timestamp (e.g. 90, 1:30 or 1:02:30)")
	playCmd.Flags().BoolP("audio", "a", false, "Play audio only, without a video output")
	playCmd.Flags().BoolP("detached", "d", false, "Keep the video window on top while working elsewhere")
	playCmd.MarkFlagsMutuallyExclusive("playlist", "channel")
	playCmd.MarkFlagsMutuallyExclusive("audio", "detached")
}

// playCmd starts playback of a single video without entering the full TUI.
var playCmd = &cobra.Command{
	Use:   "play <video url or id>",
	Short: "Play a video directly, bypassing the interactive interface",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			target     = args[0]
			playlistID = lo.Must(cmd.Flags().GetString("playlist"))
			channelID  = lo.Must(cmd.Flags().GetString("channel"))
			at         = lo.Must(cmd.Flags().GetString("at"))
			audio      = lo.Must(cmd.Flags().GetBool("audio"))
			detached   = lo.Must(cmd.Flags().GetBool("detached"))
		)

		timestampSec := piped.TimestampSec(target)
		if at != "" {
			parsed, err := parseTimestamp(at)
			handleErr(err)
			timestampSec = parsed
		}

		client := piped.NewClient()
		mode := session.Foreground
		switch {
		case audio:
			mode = session.BackgroundAudio
		case detached:
			mode = session.Detached
		}

		engine, err := player.New(viper.GetString(key.PlayerDefault), player.EngineOptions{
			Videoless: audio,
			OnTop:     detached,
		})
		handleErr(err)

		surface := newInlineSurface()
		opts := session.Options{
			Gateway:  client,
			Queue:    queue.New(client),
			Engine:   engine,
			Segments: sponsorblock.NewClient(),
			Sink:     surface,
			Mode:     mode,
		}.FromConfig()

		coordinator := session.New(opts)
		surface.coordinator = coordinator
		coordinator.Attach(surface)

		manager := session.NewManager()
		manager.Activate(coordinator)
		defer manager.Stop()

		handleErr(coordinator.Load(context.Background(), session.LoadRequest{
			VideoID:      target,
			PlaylistID:   playlistID,
			ChannelID:    channelID,
			TimestampSec: timestampSec,
		}))

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

		select {
		case <-interrupt:
			fmt.Println()
		case <-surface.done:
		}
	},
}

// parseTimestamp converts ss, mm:ss or hh:mm:ss notation into seconds.
func parseTimestamp(s string) (int64, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	var total int64
	for _, part := range parts {
		value, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + value
	}
	return total, nil
}
