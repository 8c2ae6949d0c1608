package models

import "time"

// AttendanceRecord is one check-in event. Date is day-granular; CheckInTime
// keeps the full timestamp. At most one record per (member, date) is the
// intended invariant, enforced by admission control before insertion.
type AttendanceRecord struct {
	ID          int64     `json:"id" db:"id"`
	MemberID    int64     `json:"member_id" db:"member_id"`
	Date        time.Time `json:"date" db:"date"`
	CheckInTime time.Time `json:"check_in_time" db:"check_in_time"`
}

// CheckInResult is the outcome of an admission attempt. Marked is false when
// the member had already checked in today.
type CheckInResult struct {
	Marked bool `json:"marked"`
}

// AttendanceEntry is an attendance record joined with the member's name,
// used by the daily sheet view.
type AttendanceEntry struct {
	AttendanceRecord
	MemberName string `json:"member_name" db:"member_name"`
}
