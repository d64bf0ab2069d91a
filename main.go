package main

import (
	"postline/cmd"
)

func main() {
	cmd.Execute()
}
