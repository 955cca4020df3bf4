package main

import "github.com/ethpandaops/deposit-verifier/cmd"

func main() {
	cmd.Execute()
}
