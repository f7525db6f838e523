package main

import (
	"context"

	"github.com/parallelme/parallelme/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Execute(context.Background(), version, commit)
}
