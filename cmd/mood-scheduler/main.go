package main

import (
	"fmt"
	"os"

	"mood-scheduler/internal/config"
)

func main() {
	config.LoadEnv()
	config.InitLogger()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
