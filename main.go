package main

import "glove-midi/cmd"

func main() {
	cmd.Execute()
}
