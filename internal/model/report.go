package model

import (
	"fmt"
	"time"
)

// Section headings recognized in report text
const (
	HeadingCurrent = "本周工作"
	HeadingNext    = "下周计划"
)

// Report is one submitted office report
type Report struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`                   // Member who submitted the report
	DateRange   string       `json:"date_range"`             // e.g. "11.29-12.5"
	CurrentWork string       `json:"current_work"`           // Current-period narrative
	NextPlan    string       `json:"next_plan"`              // Next-period narrative
	Status      ReportStatus `json:"status"`
	CheckResult *CheckResult `json:"check_result,omitempty"` // Last stored proofreading result
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ReportStatus tracks the report lifecycle
type ReportStatus string

const (
	StatusSubmitted ReportStatus = "submitted"
	StatusChecked   ReportStatus = "checked"
)

// Content composes the text that is proofread for a stored report
func (r Report) Content() string {
	return fmt.Sprintf("%s：\n%s\n\n%s：\n%s", HeadingCurrent, r.CurrentWork, HeadingNext, r.NextPlan)
}
