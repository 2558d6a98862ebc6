package main

import "prepwise/cmd"

func main() {
	cmd.Execute()
}
