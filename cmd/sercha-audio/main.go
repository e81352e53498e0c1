// Command sercha-audio transcribes recordings and answers questions about them.
package main

import (
	"context"
	"os"

	"github.com/custodia-labs/sercha-audio/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
