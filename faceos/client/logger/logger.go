package logger

import (
	"fmt"

	"tzface/faceos/kernel"
	"tzface/faceos/proto"
)

// Log sends a log line to the logger service.
//
// The call is best-effort: it may drop on queue full.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), proto.LogLinePayload(line), kernel.Capability{})
}

// Logf formats and sends a log line, retrying for up to retries ticks while
// the logger queue is full.
func Logf(ctx *kernel.Context, logCap kernel.Capability, retries int, format string, args ...any) error {
	if ctx == nil {
		return fmt.Errorf("logger send: nil context")
	}
	if !logCap.Valid() {
		return nil
	}
	payload := proto.LogLinePayload(fmt.Sprintf(format, args...))
	res := ctx.SendToCapRetry(logCap, uint16(proto.MsgLogLine), payload, kernel.Capability{}, retries)
	if res != kernel.SendOK {
		return fmt.Errorf("logger send: %s", res)
	}
	return nil
}
