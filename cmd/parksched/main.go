package main

import (
	"github.com/joho/godotenv"

	"github.com/example/parking-scheduler/cmd"
)

func main() {
	// .env is optional, for local runs.
	_ = godotenv.Load()
	cmd.Execute()
}
