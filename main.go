package main

import "github.com/dendro-dev/dendro/cmd"

func main() {
	cmd.Execute()
}
