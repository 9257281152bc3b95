package main

import "github.com/opsarif/ngo-erp/cmd"

func main() {
	cmd.Execute()
}
