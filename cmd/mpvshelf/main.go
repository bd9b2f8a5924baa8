// filepath: cmd/mpvshelf/main.go
package main

import (
	"mpvshelf/internal/cli"
)

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
