package main

import (
	"log"

	"github.com/jurnalku/jurnalku/internal/app"
)

func main() {
	theApp, err := app.New()
	if err != nil {
		log.Fatalln("Application initialization error:", err)
	}
	defer theApp.Close()

	if err := theApp.Run(); err != nil {
		log.Fatalln("Application runtime error:", err)
	}
}
