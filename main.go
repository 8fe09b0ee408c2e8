package main

import "github.com/Rana718/agriseed/cmd"

func main() {
	cmd.ExitOnError(cmd.Execute())
}
