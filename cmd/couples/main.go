package main

import "github.com/mcoot/couplecards/internal/cli"

func main() {
	cli.Execute()
}
