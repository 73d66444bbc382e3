package main

import (
	"MeloFM/cmd"
)

func main() {
	// Cobra handles error reporting and exit codes on its own.
	cmd.Execute()
}
