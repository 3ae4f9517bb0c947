package main

import "github.com/integrada/portal/api"

func main() {
	api.MainLoop()
}
