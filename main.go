package main

import "plate-tracker/cmd"

func main() {
	cmd.Execute()
}
