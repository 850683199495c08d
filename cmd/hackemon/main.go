package main

import "github.com/nathanieltooley/hackemon/cmd/hackemon/cmd"

func main() {
	cmd.Execute()
}
