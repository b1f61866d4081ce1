package main

import "ebp-replay-analyzer/cmd"

func main() {
	cmd.Execute()
}
