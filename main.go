package main

import "github.com/ZxlHyy/i18n-tr/internal/cli"

func main() {
	cli.Execute()
}
