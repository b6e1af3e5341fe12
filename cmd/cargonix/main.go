package main

import "cargonix/internal/cli"

func main() {
	cli.Execute()
}
