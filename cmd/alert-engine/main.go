package main

import "github.com/oshokin/alert-override/cmd/alert-engine/cmd"

func main() {
	cmd.Execute()
}
