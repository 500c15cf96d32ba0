package main

import "github.com/mchmarny/trustscore/pkg/cli"

func main() {
	cli.Execute()
}
