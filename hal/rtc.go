package hal

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"
)

// WithOffset returns an RTC that reports rtc's instant in a fixed zone
// offsetMinutes east of UTC.
func WithOffset(rtc RTC, offsetMinutes int) RTC {
	return fixedZoneRTC{
		rtc:  rtc,
		zone: time.FixedZone(zoneName(offsetMinutes), offsetMinutes*60),
	}
}

type fixedZoneRTC struct {
	rtc  RTC
	zone *time.Location
}

func (r fixedZoneRTC) Now() time.Time { return r.rtc.Now().In(r.zone) }

func zoneName(offsetMinutes int) string {
	sign := byte('+')
	if offsetMinutes < 0 {
		sign = '-'
		offsetMinutes = -offsetMinutes
	}
	h, m := offsetMinutes/60, offsetMinutes%60
	return "UTC" + string(sign) + pad2(h) + ":" + pad2(m)
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

var errBadSync = errors.New("rtc: bad sync line")

// syncRTC is a free-running clock that can be corrected at runtime.
// Boards without a battery-backed RTC start at the runtime epoch and
// are set over the serial console.
type syncRTC struct {
	mu   sync.Mutex
	base func() time.Time
	adj  time.Duration
	zone *time.Location
}

func newSyncRTC(base func() time.Time) *syncRTC {
	return &syncRTC{base: base, zone: time.UTC}
}

func (r *syncRTC) Now() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.base().Add(r.adj).In(r.zone)
}

// Apply parses a sync line of the form "T<unix-seconds>" or
// "T<unix-seconds> <utc-offset-minutes>" and sets the clock from it.
func (r *syncRTC) Apply(line string) error {
	unix, offset, ok := parseSyncLine(line)
	if !ok {
		return errBadSync
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adj = time.Unix(unix, 0).Sub(r.base())
	r.zone = time.FixedZone(zoneName(offset), offset*60)
	return nil
}

func parseSyncLine(line string) (unix int64, offsetMinutes int, ok bool) {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != 'T' {
		return 0, 0, false
	}
	fields := strings.Fields(line[1:])
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, false
	}
	unix, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || unix < 0 {
		return 0, 0, false
	}
	if len(fields) == 2 {
		offsetMinutes, err = strconv.Atoi(fields[1])
		if err != nil || offsetMinutes < -720 || offsetMinutes > 840 {
			return 0, 0, false
		}
	}
	return unix, offsetMinutes, true
}
