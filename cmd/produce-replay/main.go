// Command produce-replay compares two recorded tick logs and reports where
// a later run diverged from a golden run, grounded on
// LuKev-tm_server's cmd/replay_validator: usage check, load both files,
// validate, print a summary, and exit non-zero on any mismatch.
package main

import (
	"fmt"
	"os"

	"github.com/harukaze/producecore/internal/ticklog"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: produce-replay <expected.jsonl> <actual.jsonl>")
		os.Exit(1)
	}

	expectedPath := os.Args[1]
	actualPath := os.Args[2]

	validator, err := ticklog.NewValidator(expectedPath, actualPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "produce-replay: %v\n", err)
		os.Exit(1)
	}

	mismatches := validator.Diff()
	if len(mismatches) == 0 {
		fmt.Println("tick logs match")
		return
	}

	fmt.Printf("found %d mismatch(es):\n", len(mismatches))
	for _, m := range mismatches {
		fmt.Println(" -", m.String())
	}
	os.Exit(1)
}
