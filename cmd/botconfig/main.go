package main

import (
	"github.com/rzbill/botconfig/pkg/cli/cmd"
)

func main() {
	cmd.Execute()
}
