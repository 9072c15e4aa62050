package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/interval"
)

// Block is an exclusion interval for the whole calendar (holidays, maintenance)
type Block struct {
	ID         int64
	CalendarID int64
	Start      time.Time
	End        time.Time
	Reason     *string
	CreatedBy  int64
	CreatedAt  time.Time
}

// Interval returns the block as a half-open interval
func (b *Block) Interval() interval.Interval {
	return interval.New(b.Start, b.End)
}
