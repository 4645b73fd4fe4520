package main

import (
	"log"

	"github.com/joho/godotenv"

	"urlvet/cmd"
)

func main() {
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
