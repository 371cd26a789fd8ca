// Command ktx inspects and validates KTX2 texture container files.
package main

import (
	"fmt"
	"os"
)

const usage = `Usage: ktx <command> [options] INPUT_FILE

Commands:
  validate   Validate a KTX2 file and report conformance issues
  info       Print the structural contents of a KTX2 file
  encode     (not implemented)
  transcode  (not implemented)
  extract    (not implemented)
  create     (not implemented)
`

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches on the subcommand name, mirroring cmd/evrtools's
// switch-on-mode dispatch. Exit codes follow §6: 0 success, 1 CLI misuse,
// 2 info parse error, 3 validation failures.
func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "validate":
		return runValidate(rest)
	case "info":
		return runInfo(rest)
	case "encode", "transcode", "extract", "create":
		return runStub(cmd, rest)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "ktx: unknown command %q\n\n%s", cmd, usage)
		return 1
	}
}
