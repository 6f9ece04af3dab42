// Package main is the entry point for the academystats CLI tool, which
// keeps a local history of planets.nu Academy games and their players.
package main

import "github.com/pable/academystats/cmd"

func main() {
	cmd.Execute()
}
