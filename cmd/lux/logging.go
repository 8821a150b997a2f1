package main

import (
	"github.com/soypat/lux/internal/log"
	"github.com/urfave/cli"
)

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
