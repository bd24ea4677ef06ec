package main

import "github.com/oshokin/alert-override/cmd/alert-report/cmd"

func main() {
	cmd.Execute()
}
