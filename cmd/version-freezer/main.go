package main

import "github.com/pybuild-tools/version-freezer/cmd/version-freezer/cmd"

func main() {
	cmd.Execute()
}
