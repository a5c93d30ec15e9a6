package main

import (
	"context"
	"log"
	"os"

	"github.com/avolkov/pawshare/internal/app"
	"github.com/avolkov/pawshare/internal/buildinfo"
	"github.com/avolkov/pawshare/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	a, err := app.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	a.Run(ctx)

}
