package main

import (
	"fmt"
	"os"
)

func main() {
	cli := newCommandLine()
	if err := cli.run(os.Args[1:]); err != nil {
		if err != errHelp {
			_, _ = fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
