package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/KirkDiggler/tenzies/internal/bootstrap"
	"github.com/KirkDiggler/tenzies/internal/config"
	"github.com/KirkDiggler/tenzies/internal/handlers/terminal"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/fatih/color"
)

func main() {
	name := flag.String("name", "", "player name, random when empty")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}
	if *name == "" {
		*name = petname.Generate(2, "-")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Close()

	client, err := terminal.New(&terminal.Config{
		GameService:      app.GameService,
		MessagingService: app.MessagingService,
		Clock:            app.Clock,
		PlayerID:         "terminal:" + *name,
		PlayerName:       *name,
		In:               os.Stdin,
		Out:              color.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create terminal client: %v", err)
	}

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Terminal client failed: %v", err)
	}
}
