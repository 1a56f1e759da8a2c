package main

import (
	"context"
	"log"
	"os"

	"github.com/anavarro-dev/recetas/internal/buildinfo"
	"github.com/anavarro-dev/recetas/internal/client/cli"
	"github.com/anavarro-dev/recetas/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
