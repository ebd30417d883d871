package main

import (
	"os"

	"github.com/ymaeda-ai/insurag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
