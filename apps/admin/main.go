package main

import (
	"fmt"
	"os"

	"github.com/rominswe/pg-progress-sub002/apps/shared"
	"github.com/rominswe/pg-progress-sub002/core"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, flush, err := shared.NewLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up logger: %v\n", err)
		os.Exit(1)
	}

	deps, err := shared.Setup(conf, logger, shared.Options{})
	if err != nil {
		flush()
		fmt.Fprintf(os.Stderr, "setting up dependencies: %v\n", err)
		os.Exit(1)
	}

	cli := newCommandLine(deps, os.Stdout)
	err = cli.run(os.Args)
	_ = deps.Close()
	flush()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
