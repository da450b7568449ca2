package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Best-effort: a missing .env file is fine, keys can come from the
	// environment or the config file.
	godotenv.Load()

	Execute()
}
