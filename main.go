package main

import (
	"log"
	"os"

	"github.com/avstrong/stayhub/internal/app"
	"github.com/avstrong/stayhub/internal/config"
	"github.com/avstrong/stayhub/internal/logger"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.NewFromConfig(conf.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	var exitCode int

	if err := app.Run(conf, l); err != nil {
		l.LogErrorf("Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}
