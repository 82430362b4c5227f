package main

import (
	"fmt"
	"os"

	"github.com/defolio/compose/cmd/compose"
)

func main() {
	rootCmd := compose.BuildComposeCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
