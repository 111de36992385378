// Package main is the entry point for the reimport CLI.
package main

import "reimport.dev/pkg/reimport/cmd"

func main() {
	cmd.Execute()
}
