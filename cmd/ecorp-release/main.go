package main

import "github.com/drkarl/live-wallpaper-ecorp/cmd/ecorp-release/cmd"

func main() {
	cmd.Execute()
}
