package main

import (
	"github.com/draupnir/draupnir/internal/cli"
)

func main() {
	cli.Execute()
}
