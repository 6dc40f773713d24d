package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	runtimecmd "github.com/louisbranch/vergence/internal/cmd/runtime"
)

func main() {
	cfg, err := runtimecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[RUNTIME] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runtimecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
