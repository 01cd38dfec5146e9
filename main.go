package main

import "github.com/example/wordwise/internal/cli"

func main() {
	cli.Execute()
}
