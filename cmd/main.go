package main

import (
	"fmt"
	"os"

	"classquiz-service/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "classquiz:", err)
		os.Exit(1)
	}
}
