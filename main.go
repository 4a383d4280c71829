package main

import "github.com/brogergvhs/scansdl/cmd"

func main() {
	cmd.Execute()
}
