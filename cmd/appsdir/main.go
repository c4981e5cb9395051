package main

import (
	"os"

	"github.com/hashicorp-forge/appsdir/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
