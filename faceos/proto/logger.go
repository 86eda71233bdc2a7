package proto

import "unicode/utf8"

// MaxLogLine matches the kernel's message payload limit.
const MaxLogLine = 128

// LogLinePayload encodes a MsgLogLine payload: UTF-8 text without a trailing
// newline, cut at a rune boundary to fit MaxLogLine.
func LogLinePayload(line string) []byte {
	if len(line) > MaxLogLine {
		n := MaxLogLine
		for n > 0 && !utf8.RuneStart(line[n]) {
			n--
		}
		line = line[:n]
	}
	return []byte(line)
}
