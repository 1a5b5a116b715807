package main

import (
	"github.com/mkarsten/tablehost/internal/cli"
)

func main() {
	cli.Execute()
}
