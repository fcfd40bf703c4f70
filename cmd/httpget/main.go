// Command httpget demonstrates asyncrt.HTTPGet: a GET request routed
// through the slowwly delay proxy, whose response is read off the
// reactor thread, one readiness notification at a time, rather than
// with a single blocking read.
//
// Run with: go run ./cmd/httpget <url> [delay_ms]
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-asyncrt/asyncrt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: httpget <url> [delay_ms]")
		os.Exit(1)
	}
	url := os.Args[1]

	var delayMS uint32
	if len(os.Args) > 2 {
		n, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid delay_ms:", err)
			os.Exit(1)
		}
		delayMS = uint32(n)
	}

	err := asyncrt.Run(func(rt *asyncrt.Runtime) {
		rt.HTTPGet(url, delayMS, func(result asyncrt.IOResult) {
			text, ok := result.AsText()
			if !ok {
				fmt.Fprintln(os.Stderr, "request failed")
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
