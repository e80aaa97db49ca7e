package main

import (
	"fmt"
	"os"

	"github.com/smartcontractkit/readcontract/cmd/readcontract"
)

func main() {
	rootCmd := readcontract.BuildReadContractCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
