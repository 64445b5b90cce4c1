//go:build cli
// +build cli

package main

import (
	_ "imarket.GO/custom"

	"imarket.GO/cmd"
	"imarket.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
