package main

import (
	"os"

	"propalyze-cleaner/cli"
)

func main() {
	os.Exit(cli.Execute())
}
