package main

import "rehearse/cmd"

func main() {
	cmd.Execute()
}
