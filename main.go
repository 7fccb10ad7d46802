package main

import "midigraph/cmd"

func main() {
	cmd.Execute()
}
