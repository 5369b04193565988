package main

import "github.com/thehive/hive-events/internal/cli"

func main() {
	cli.Execute()
}
