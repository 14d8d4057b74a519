package main

import "runcoach/internal/cmd"

func main() {
	cmd.Execute()
}
