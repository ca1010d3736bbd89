package main

import "github/chapool/go-faucet/cmd"

func main() {
	cmd.Execute()
}
