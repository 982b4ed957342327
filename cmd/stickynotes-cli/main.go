package main

import "stickynotes/cmd/stickynotes-cli/cmd"

func main() {
	cmd.Execute()
}
