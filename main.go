package main

import "github.com/mouse-blink/munge/cmd"

func main() {
	cmd.Execute()
}
