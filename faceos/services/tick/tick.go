// Package ticksvc turns the kernel tick stream into wall-clock minute ticks
// for subscribed tasks.
package ticksvc

import (
	"tzface/faceos/kernel"
	"tzface/faceos/proto"
	"tzface/hal"
)

const maxSubscribers = 8

type subscriber struct {
	inUse bool
	units proto.Units
	reply kernel.Capability
}

type Service struct {
	rtc hal.RTC
	ep  kernel.Capability

	last    proto.TickTime
	started bool
	subs    [maxSubscribers]subscriber
}

func New(rtc hal.RTC, ep kernel.Capability) *Service {
	return &Service{rtc: rtc, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok || s.rtc == nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 1)
	go func() {
		last := ctx.NowTick()
		for {
			select {
			case <-done:
				return
			default:
			}
			last = ctx.WaitTick(last)
			select {
			case tickCh <- last:
			default:
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handle(ctx, msg)
		case <-tickCh:
			s.poll(ctx)
		}
	}
}

func (s *Service) handle(ctx *kernel.Context, msg kernel.Message) {
	if !msg.Cap.Valid() {
		return
	}
	switch proto.Kind(msg.Kind) {
	case proto.MsgTickSubscribe:
		units, ok := proto.DecodeTickSubscribePayload(msg.Payload())
		if !ok {
			payload := proto.ErrorPayload(proto.ErrBadMessage, proto.MsgTickSubscribe, nil)
			_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgError), payload, kernel.Capability{})
			return
		}
		if !s.subscribe(units, msg.Cap) {
			payload := proto.ErrorPayload(proto.ErrOverflow, proto.MsgTickSubscribe, nil)
			_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgError), payload, kernel.Capability{})
			return
		}
		now := s.read()
		if !s.started {
			s.last = now
			s.started = true
		}
		now.Units = proto.UnitsAll
		_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgTick), proto.TickPayload(now), kernel.Capability{})

	case proto.MsgTickUnsubscribe:
		s.unsubscribe(msg.Cap)
	}
}

func (s *Service) subscribe(units proto.Units, reply kernel.Capability) bool {
	free := -1
	for i := range s.subs {
		sub := &s.subs[i]
		if sub.inUse && sub.reply == reply {
			sub.units = units
			return true
		}
		if !sub.inUse && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return false
	}
	s.subs[free] = subscriber{inUse: true, units: units, reply: reply}
	return true
}

func (s *Service) unsubscribe(reply kernel.Capability) {
	for i := range s.subs {
		if s.subs[i].inUse && s.subs[i].reply == reply {
			s.subs[i] = subscriber{}
		}
	}
}

func (s *Service) read() proto.TickTime {
	return proto.TickTimeFrom(s.rtc.Now(), 0)
}

func (s *Service) poll(ctx *kernel.Context) {
	now := s.read()
	if !s.started {
		s.last = now
		s.started = true
		return
	}
	units := proto.ChangedUnits(s.last, now)
	if units == 0 {
		return
	}
	s.last = now
	now.Units = units

	payload := proto.TickPayload(now)
	for i := range s.subs {
		sub := &s.subs[i]
		if !sub.inUse || sub.units&units == 0 {
			continue
		}
		switch ctx.SendToCapResult(sub.reply, uint16(proto.MsgTick), payload, kernel.Capability{}) {
		case kernel.SendOK, kernel.SendErrQueueFull:
		default:
			// The subscriber's endpoint is gone.
			*sub = subscriber{}
		}
	}
}
