package main

import "lofreq/cmd"

func main() {
	cmd.Execute()
}
