package main

import "github.com/qredit/explorer/app/tooling/explorer-cli/cmd"

func main() {
	cmd.Execute()
}
