package main

import "github.com/fakeyudi/focusforge/cmd"

func main() {
	cmd.Execute()
}
