package main

import (
	"fhd342gs/ropcheck/cmd"
)

func main() {
	cmd.Execute()
}
