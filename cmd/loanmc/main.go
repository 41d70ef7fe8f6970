package main

import (
	"github.com/c9s/loanmc/pkg/cmd"
)

func main() {
	cmd.Execute()
}
