package main

import (
	"github.com/protek/protek/cmd"
)

func main() {
	cmd.Execute()
}
