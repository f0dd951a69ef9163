package main

import "github.com/ethanolivertroy/modinstall/cmd"

func main() {
	cmd.Execute()
}
