package main

import "kiln/cmd"

func main() {
	cmd.Execute()
}
