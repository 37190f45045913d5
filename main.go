package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "time/tzdata"

	"github.com/FOX2920/Automated-CV-Scoring/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
