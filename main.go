package main

import "gyuu/cmd"

func main() {
	cmd.Execute()
}
