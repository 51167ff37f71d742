package main

import "portfolio-terminal/internal/cli"

func main() {
	cli.Execute()
}
