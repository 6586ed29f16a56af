package main

import (
	"puzzle/cmd"

	// Import built-in plugins (triggers init registration)
	_ "puzzle/plugins/notify"
	_ "puzzle/plugins/state/memory"
)

func main() {
	cmd.Execute()
}
