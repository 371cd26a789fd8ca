package main

import "fmt"

// runStub handles the subcommand-table entries §6 lists as out of scope:
// encode/transcode/extract/create parse no flags of their own and simply
// report that they aren't implemented, so the dispatcher's shape matches
// a complete `ktx` toolchain without pretending to cover functionality
// this validator never implements.
func runStub(cmd string, args []string) int {
	fmt.Printf("ktx %s: not implemented\n", cmd)
	return 1
}
