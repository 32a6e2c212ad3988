package main

import (
	"github.com/nichevl/go-niche/pkg/cmd"
)

func main() {
	cmd.Execute()
}
