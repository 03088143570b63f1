// Package main provides the mcmc command.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/mcmc/mcmc/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
