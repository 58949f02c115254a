package main

import "musicstore/cmd"

func main() {
	cmd.Execute()
}
