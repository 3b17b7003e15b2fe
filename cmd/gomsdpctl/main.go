// Gomsdpctl -- CLI client for the gomsdp daemon.
package main

import "github.com/dantte-lp/gomsdp/cmd/gomsdpctl/commands"

func main() {
	commands.Execute()
}
