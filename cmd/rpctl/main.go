package main

import "github.com/mcoot/rpserver-go/internal/cli"

func main() {
	cli.Execute()
}
