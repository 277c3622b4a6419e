package main

import (
	"os"

	_ "github.com/viant/afsc/gs"
	_ "github.com/viant/afsc/s3"
	cli "github.com/viant/divinity/cmd/divinity"
)

var version string

func main() {
	cli.SetVersion(version)
	cli.Run(os.Args[1:])
}
