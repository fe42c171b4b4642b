package main

import "github.com/runloopai/rl-cli-sub001/cmd"

// version is set at build time via -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
