package main

import "assetkit/cmd"

func main() {
	cmd.Execute()
}
