package main

import "github.com/dafibh/fortuna/fortuna-coach/internal/cli"

func main() {
	cli.Execute()
}
