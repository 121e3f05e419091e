package engine

import "time"

// Scheduler runs f once after d. Implementations must not call f
// synchronously from After.
type Scheduler interface {
	After(d time.Duration, f func())
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, f func()) { time.AfterFunc(d, f) }
