// Command siteweb serves the personal website and manages its content.
package main

import (
	_ "github.com/joho/godotenv/autoload"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	Execute()
}
