package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
)

// Loadenv loads .env into the process environment before config is built.
func Loadenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}
