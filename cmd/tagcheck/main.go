package main

import "tagcheck/internal/cli"

func main() {
	cli.Execute()
}
