package main

import "github.com/mj1618/macropad/cmd"

func main() {
	cmd.Execute()
}
