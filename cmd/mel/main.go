package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dashkit/mel"
	"github.com/dashkit/mel/loader"
	"github.com/dashkit/mel/logger"
)

func main() {
	verbose := flag.Bool("v", false, "enable debug logging")
	validate := flag.Bool("validate", false, "check the expression without evaluating it")
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		logger.L.SetLevel(logrus.DebugLevel)
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	expression := args[0]

	if *validate {
		// With a dataset file the check also covers column references;
		// without one it is syntax only.
		var columns []string
		if len(args) > 1 {
			ds, err := loader.Load(args[1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "load error: %v\n", err)
				os.Exit(1)
			}
			columns = ds.Columns
		}
		result := mel.Validate(expression, columns)
		if result.OK {
			fmt.Println("ok")
			return
		}
		for _, msg := range result.Errors {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}

	if len(args) < 2 {
		usage()
		os.Exit(1)
	}

	ds, err := loader.Load(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "load error: %v\n", err)
		os.Exit(1)
	}

	cell, err := mel.Evaluate(expression, ds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(cell.String())
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: mel [-v] [-validate] '<expression>' <dataset file>")
	fmt.Fprintln(os.Stderr, "example: mel 'SUM(revenue) / COUNT_DISTINCT(user_id)' events.parquet")
}
