package main

import "github.com/StratifyWorks/segscope-cli/cmd"

func main() {
	cmd.Execute()
}
