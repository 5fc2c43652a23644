package service

import "sync"

// DoctorLocks serializes slot-mutating work per doctor. Schedule
// regeneration wipes and rewrites a doctor's slots; a booking landing
// between the wipe and the rewrite would be silently discarded, so both
// paths take the doctor's lock. Different doctors never contend.
type DoctorLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewDoctorLocks() *DoctorLocks {
	return &DoctorLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the doctor's mutex and returns the release func.
func (d *DoctorLocks) Lock(doctorID int64) func() {
	d.mu.Lock()
	lock, ok := d.locks[doctorID]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[doctorID] = lock
	}
	d.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
