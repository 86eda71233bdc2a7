//go:build tinygo

package main

import (
	"tzface/app"
	"tzface/hal"
)

func main() {
	app.Run(hal.New())
}

