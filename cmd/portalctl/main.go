package main

import "github.com/integrada/portal/cmd/portalctl/command"

func main() {
	command.Execute()
}
