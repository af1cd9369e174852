package main

import (
	"log"

	"github.com/BibleBot/backend/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("backend failed to start: %v", err)
	}
}
