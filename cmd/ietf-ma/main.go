package main

import "github.com/csperkins/empirical-analysis-ietf/internal/cli"

func main() {
	cli.Execute()
}
