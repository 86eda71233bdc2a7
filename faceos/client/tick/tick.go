package tick

import (
	"fmt"

	"tzface/faceos/kernel"
	"tzface/faceos/proto"
)

// Subscribe asks the tick service to send MsgTick to reply whenever one of
// units changes. The service answers with an immediate tick.
func Subscribe(ctx *kernel.Context, tickCap, reply kernel.Capability, units proto.Units) error {
	if ctx == nil {
		return fmt.Errorf("tick subscribe: nil context")
	}
	if !reply.Valid() {
		return fmt.Errorf("tick subscribe: invalid reply capability")
	}
	res := ctx.SendToCapRetry(tickCap, uint16(proto.MsgTickSubscribe), proto.TickSubscribePayload(units), reply.Restrict(kernel.RightSend), 16)
	if res != kernel.SendOK {
		return fmt.Errorf("tick subscribe: %s", res)
	}
	return nil
}

// Unsubscribe stops ticks to reply.
func Unsubscribe(ctx *kernel.Context, tickCap, reply kernel.Capability) error {
	if ctx == nil {
		return fmt.Errorf("tick unsubscribe: nil context")
	}
	res := ctx.SendToCapResult(tickCap, uint16(proto.MsgTickUnsubscribe), nil, reply.Restrict(kernel.RightSend))
	if res != kernel.SendOK {
		return fmt.Errorf("tick unsubscribe: %s", res)
	}
	return nil
}

// Decode extracts the tick from a MsgTick message.
func Decode(msg kernel.Message) (proto.TickTime, error) {
	if proto.Kind(msg.Kind) == proto.MsgError {
		code, ref, _, ok := proto.DecodeErrorPayload(msg.Payload())
		if !ok {
			return proto.TickTime{}, fmt.Errorf("tick error: bad payload")
		}
		return proto.TickTime{}, fmt.Errorf("tick error: code=%s ref=%s", code, ref)
	}
	if proto.Kind(msg.Kind) != proto.MsgTick {
		return proto.TickTime{}, fmt.Errorf("tick: unexpected message %s", proto.Kind(msg.Kind))
	}
	tt, ok := proto.DecodeTickPayload(msg.Payload())
	if !ok {
		return proto.TickTime{}, fmt.Errorf("tick: bad payload")
	}
	return tt, nil
}
