package main

import "vibromon/internal/cli"

func main() {
	cli.Execute()
}
