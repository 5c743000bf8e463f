package version

import (
	"fmt"

	"github.com/pipetube-cli/pipetube/color"
	"github.com/pipetube-cli/pipetube/constant"
	"github.com/pipetube-cli/pipetube/key"
	"github.com/pipetube-cli/pipetube/style"
	"github.com/pipetube-cli/pipetube/util"
	"github.com/spf13/viper"
)

// Notify prints a terminal alert when a more recent stable release exists.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable("Checking if new version is available...")
	version, err := Latest()
	erase()
	if err == nil {
		comp, err := Compare(version, constant.Version)
		if err == nil && comp <= 0 {
			return
		}
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/pipetube-cli/pipetube/releases/tag/v"+version),
	)
}
