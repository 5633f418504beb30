package service

import "time"

// Clock источник текущего времени. В тестах подменяется на фиксированное значение.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}
