package main

import "github.com/Seann-Moser/ledpin/cmd"

func main() {
	cmd.Execute()
}
