package main

import "github.com/example/shiftcall/internal/interfaces/cli"

func main() {
	cli.Execute()
}
