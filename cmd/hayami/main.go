// Command hayami is the entry point for the artwork posting bot.
package main

import "hayami/cmd/hayami/commands"

func main() {
	commands.Execute()
}
