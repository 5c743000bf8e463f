package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/pipetube-cli/pipetube/color"
	"github.com/pipetube-cli/pipetube/style"
	"github.com/pipetube-cli/pipetube/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case searchState:
		output = b.viewSearch()
	case resultsState:
		output = b.viewResults()
	case playingState:
		output = b.viewPlaying()
	case queueState:
		output = b.viewQueue()
	case historyState:
		output = b.viewHistory()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " Working...",
		},
	)
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search Videos"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok {
		lines = append(lines, "", style.Faint(fmt.Sprintf("suggestion: %s (tab to accept)", suggestion)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewResults() string {
	return listExtraPaddingStyle.Render(b.resultsC.View())
}

func (b *statefulBubble) viewQueue() string {
	return listExtraPaddingStyle.Render(b.queueC.View())
}

func (b *statefulBubble) viewHistory() string {
	return listExtraPaddingStyle.Render(b.historyC.View())
}

func (b *statefulBubble) viewPlaying() string {
	lines := []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(style.Fg(color.Purple)(b.nowPlaying.Title)),
		style.Truncate(b.width)(style.Faint(b.nowPlaying.Uploader)),
		"",
	}

	if b.durationMs > 0 {
		ratio := float64(b.positionMs) / float64(b.durationMs)
		lines = append(lines,
			b.progressC.ViewAs(ratio),
			style.Faint(fmt.Sprintf("%s / %s (%s)",
				util.FormatDuration(b.positionMs),
				util.FormatDuration(b.durationMs),
				b.playerState,
			)),
		)
	} else {
		lines = append(lines, b.spinnerC.View()+" "+b.playerState.String())
	}

	if segment, ok := b.pendingSkip.Get(); ok {
		lines = append(lines,
			"",
			style.Fg(color.Yellow)(fmt.Sprintf("%s segment - press s to skip", util.Capitalize(segment.Category))),
		)
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(color.New("196")).Bold(true)
	errorBody := errorStyle.Render(fmt.Sprintf("Failure: %v", b.lastError))
	errorMsg := wrap.String(errorBody, b.width)

	return b.renderLines(
		true,
		append([]string{
			style.ErrorTitle("Error"),
			"",
			"An error occurred:",
			"",
		},
			errorMsg,
		),
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
