package main

import "github.com/MeKo-Tech/gridmatch/cmd/gridmatch/cmd"

func main() {
	cmd.Execute()
}
