package main

import (
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"genseq/cli"
)

func main() {
	cli.Execute()
}
