// Package main is the entry point for the pipetube application.
package main

import (
	"github.com/pipetube-cli/pipetube/cmd"
	"github.com/pipetube-cli/pipetube/config"
	"github.com/pipetube-cli/pipetube/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
