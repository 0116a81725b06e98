package main

import (
	"context"

	"hnreader/cmd/hn/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
