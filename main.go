package main

import (
	"github.com/interchainlabs/relaycore/cmd"
)

func main() {
	cmd.Execute()
}
