package main

import "studiod/internal/cli"

func main() {
	cli.Execute()
}
