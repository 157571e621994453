// Package main is the entry point for the livesan application.
package main

import (
	"github.com/samber/lo"

	"github.com/livesan-cli/livesan/cmd"
	"github.com/livesan-cli/livesan/config"
	"github.com/livesan-cli/livesan/internal/cache"
	"github.com/livesan-cli/livesan/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Initialize asynchronous background cache maintenance.
	cache.CollectGarbage()

	cmd.Execute()
}
