package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/karloscodes/apiseed"
	"github.com/karloscodes/apiseed/route"
)

func main() {
	defaultConfig := os.Getenv("APISEED_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "app.ini"
	}
	configPath := flag.String("config", defaultConfig, "path to the INI configuration file")
	flag.Parse()

	app, err := apiseed.NewApp(*configPath, apiseed.WithRoutes(route.Register))
	if err != nil {
		if werr := apiseed.WriteStartupFailure(os.Stdout, err); werr != nil {
			log.Printf("write startup failure: %v", werr)
		}
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(context.Background()); err != nil {
		app.Logger.Error("Server stopped", "error", err)
		app.Close()
		os.Exit(1)
	}
}
