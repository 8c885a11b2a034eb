package main

import (
	"filematch/internal/cmd"
)

func main() {
	cmd.Execute()
}
