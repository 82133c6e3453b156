package main

import "github.com/stocktracker/stocktracker-cli/cmd"

var version = "0.1.0"

func main() {
	cmd.Version = version
	cmd.Execute()
}
