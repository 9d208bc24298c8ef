package main

import (
	"context"

	"bgg-pipeline/cmd/bgg-cli/commands"
	"bgg-pipeline/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext(context.Background())
	defer cancel()
	commands.ExecuteContext(ctx)
}
