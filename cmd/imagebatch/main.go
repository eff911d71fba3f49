package main

import (
	"github.com/MeKo-Tech/imagebatch/cmd/imagebatch/cmd"
)

func main() {
	cmd.Execute()
}
