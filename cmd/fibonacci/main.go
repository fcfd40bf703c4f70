// Command fibonacci demonstrates asyncrt.Compute: a CPU-bound task run
// on the worker pool so it never blocks the event loop thread.
//
// Run with: go run ./cmd/fibonacci <n>
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-asyncrt/asyncrt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: fibonacci <n>")
		os.Exit(1)
	}
	n, err := strconv.ParseUint(os.Args[1], 10, 64)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid n:", err)
		os.Exit(1)
	}

	err = asyncrt.Run(func(rt *asyncrt.Runtime) {
		rt.Compute(n, func(result asyncrt.IOResult) {
			value, _ := result.AsInt()
			fmt.Printf("fib(%d) = %d\n", n, value)
		})
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
