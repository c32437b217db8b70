package main

import "github.com/truenodb/trueno/cmd"

func main() {
	cmd.Execute()
}
