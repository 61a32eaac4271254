package main

import (
	"fmt"
	"os"

	"skillswap/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}
