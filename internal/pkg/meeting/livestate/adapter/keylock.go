package adapter

import "sync"

const lockStripes = 64

// meetingLocks serializes compound live-store mutations per meeting id.
// Lock striping keeps the structure allocation-free; two meetings sharing a
// stripe serialize against each other, which is harmless.
type meetingLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *meetingLocks) lock(meetingID int64) (unlock func()) {
	m := &l.stripes[uint64(meetingID)%lockStripes]
	m.Lock()
	return m.Unlock
}
