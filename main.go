package main

import "github.com/giantswarm/mcp-vcenter/cmd"

// version is set at build time via -ldflags.
var version = "1.0.0"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
