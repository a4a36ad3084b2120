package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/restbridge/restbridge/cmd/cli/commands"
)

func main() {
	// Pick up RESTBRIDGE_* variables from a local .env when present.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
