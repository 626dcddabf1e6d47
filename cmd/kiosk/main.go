package main

import "github.com/ferngrove/kiosk/cmd/kiosk/commands"

func main() {
	commands.Execute()
}
