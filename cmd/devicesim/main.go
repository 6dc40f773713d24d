package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	devicesimcmd "github.com/louisbranch/vergence/internal/cmd/devicesim"
)

func main() {
	cfg, err := devicesimcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[DEVICESIM] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := devicesimcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
