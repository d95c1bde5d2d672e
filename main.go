package main

import (
	"fmt"
	"os"

	"gridwatch/presentation/cli"
)

func main() {
	app, err := cli.NewApp(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
