package main

import (
	"github.com/joho/godotenv"

	"github.com/tlaurent/agendawatch/internal/cli"
)

func main() {
	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	cli.Execute()
}
