// Command deadstore reports assignments whose value is never read.
//
// Usage:
//
//	deadstore check [options] [files...]
//	cat program.ds | deadstore check
//	deadstore fmt [--minify] [file]
//	deadstore tokens [file]
//	deadstore version
//
// Config file:
//
//	deadstore looks for deadstore.json, .deadstorerc, .deadstorerc.json,
//	deadstore.toml, deadstore.yaml or deadstore.yml in the current directory
//	and parent directories. Config file options are overridden by CLI flags.
//
// Example deadstore.toml:
//
//	format = "text"
//	failOnDeadStore = true
//
//	[rules]
//	W0001 = "error"
package main

import (
	"os"

	"github.com/HugoDaniel/deadstore/cmd/deadstore/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
