package main

import "data-importer/cmd"

func main() {
	cmd.Execute()
}
