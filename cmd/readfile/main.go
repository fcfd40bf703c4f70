// Command readfile demonstrates asyncrt.ReadFile: a blocking file read
// dispatched to the worker pool, resolved back on the event loop.
//
// Run with: go run ./cmd/readfile <path>
package main

import (
	"fmt"
	"os"

	"github.com/go-asyncrt/asyncrt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: readfile <path>")
		os.Exit(1)
	}
	path := os.Args[1]

	err := asyncrt.Run(func(rt *asyncrt.Runtime) {
		rt.ReadFile(path, func(result asyncrt.IOResult) {
			text, ok := result.AsText()
			if !ok {
				fmt.Fprintf(os.Stderr, "failed to read %s\n", path)
				return
			}
			fmt.Print(text)
		})
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
