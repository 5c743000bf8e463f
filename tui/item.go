package tui

import (
	"fmt"
	"strings"

	"github.com/pipetube-cli/pipetube/history"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/pipetube-cli/pipetube/style"
	"github.com/pipetube-cli/pipetube/util"
)

// listItem implements the list.Item interface, wrapping domain models for
// terminal display.
type listItem struct {
	internal interface{}
	playing  bool
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *piped.StreamItem:
		title = e.Title
	case *history.Entry:
		title = e.Title
	case string:
		title = e
	default:
		title = t.FilterValue()
	}

	if title != "" && t.playing {
		title = fmt.Sprintf("%s %s", title, style.Bold("▶"))
	}

	return
}

// Description retrieves the secondary metadata line for the list item.
func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *piped.StreamItem:
		var parts []string

		if e.UploaderName != "" {
			parts = append(parts, e.UploaderName)
		}
		if e.Duration > 0 {
			parts = append(parts, util.FormatDuration(e.Duration*1000))
		}
		if e.UploadedDate != "" {
			parts = append(parts, style.Faint(e.UploadedDate))
		}

		description = strings.Join(parts, " • ")
	case *history.Entry:
		var parts []string

		if e.Uploader != "" {
			parts = append(parts, e.Uploader)
		}
		if e.Duration > 0 {
			parts = append(parts, util.FormatDuration(e.Duration*1000))
		}

		description = strings.Join(parts, " • ")
	case string:
		description = ""
	}

	return
}

// FilterValue returns the string used for real-time list filtering and searching.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *piped.StreamItem:
		return e.Title + " " + e.UploaderName
	case *history.Entry:
		return e.Title + " " + e.Uploader
	case string:
		return e
	default:
		return ""
	}
}
