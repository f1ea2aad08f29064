package main

import "github.com/lokarni/lokarni-cli/cmd"

func main() {
	cmd.Execute()
}
