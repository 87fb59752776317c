package main

import "github.com/jmehdipour/wa-gateway/cmd"

func main() {
	cmd.Execute()
}
