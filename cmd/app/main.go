// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/yourusername/verifyd/internal/config"
	"github.com/yourusername/verifyd/internal/server"
)

func main() {
	cmd := &cli.Command{
		Name:   "verifyd",
		Usage:  "Start the signup and verification web application",
		Flags:  config.Flags(),
		Action: server.Run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
