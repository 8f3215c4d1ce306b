// File: main.go
package main

import "dmxMapper/internal/cli"

func main() {
	cli.Execute()
}
