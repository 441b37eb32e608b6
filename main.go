package main

import (
	"log"

	"github.com/joho/godotenv"

	"canvas-backend/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cmd.Execute()
}
