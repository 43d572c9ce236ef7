package main

import "moviereviews/cmd/cli/command"

func main() {
	command.Execute()
}
