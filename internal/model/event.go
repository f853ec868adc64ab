package model

// Stage identifies one step of a streamed check
type Stage string

const (
	StageRule         Stage = "rule"
	StageTypoCurrent  Stage = "typo_weekly"  // Spelling pass over the current-period section
	StagePunctCurrent Stage = "punct_weekly" // Punctuation pass over the current-period section
	StageTypoNext     Stage = "typo_next"
	StagePunctNext    Stage = "punct_next"
	StageDone         Stage = "done"
)

// StageEvent is one message of the progressive check output
type StageEvent struct {
	Stage     Stage        `json:"step"`
	Message   string       `json:"message,omitempty"`
	Completed bool         `json:"completed,omitempty"`
	Error     string       `json:"error,omitempty"`
	Result    *CheckResult `json:"result,omitempty"`
}

// Failed reports whether the event carries a stage error
func (e StageEvent) Failed() bool {
	return e.Error != ""
}
