package main

import "github.com/chrisdamba/foodswipe/cmd"

func main() {
	cmd.Execute()
}
