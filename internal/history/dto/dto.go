package dto

import "time"

type EventFilters struct {
	UID      string // substring match on the tag uid
	Action   string
	Date     *time.Time // calendar day, local time
	Page     int
	PageSize int
}
