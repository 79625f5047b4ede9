// Command fsmctl loads, validates, simulates and generates code from
// hierarchical finite state machine diagrams.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
