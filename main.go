package main

import (
	"LitSift/internal/cli"
)

func main() {
	exiter, code := cli.Run()
	exiter(code)
}
