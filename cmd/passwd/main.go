package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/fitkeeper/internal/passwd"
)

func main() {
	if err := passwd.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
