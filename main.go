package main

import "github.com/charlerive/optionkit/cmd"

func main() {
	cmd.Execute()
}
