package main

import "github.com/aita/godbf/cmd"

func main() {
	cmd.Execute()
}
