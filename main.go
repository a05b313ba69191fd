package main

import "github.com/Tiliavir/productivity-tracker/cmd"

func main() {
	cmd.Execute()
}
