package main

import (
	"os"

	"github.com/Tomlord1122/todoapp/internal/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}
