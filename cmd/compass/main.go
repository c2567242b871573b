package main

import (
	"context"
	"os"

	"github.com/wajiddaudtamboli/careercompass/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:]))
}
