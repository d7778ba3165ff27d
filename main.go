package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sayah-app/sayah-go/cmd"
	"github.com/sayah-app/sayah-go/internal/buildinfo"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, buildinfo.NewContext(version, buildDate), os.Args[1:])
	stop()
	os.Exit(code)
}
