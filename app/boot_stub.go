//go:build !(tinygo && bootdebug)

package app

import "tzface/hal"

func bootScreen(hal.HAL, string) {}
