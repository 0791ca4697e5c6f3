package contract

import (
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// ReplanRequest recomputes the remaining work of one demand entry's
// accepted schedule from the next legal work moment. Now defaults to the
// current wall time when nil.
type ReplanRequest struct {
	DemandID int64
	Now      *time.Time
}

// OvertimeSuggestionView is one advisory overtime candidate block.
type OvertimeSuggestionView struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	WorkerID  int64  `json:"worker_id"`
	StepID    int64  `json:"step_id"`
	Minutes   int    `json:"minutes"`
}

// ReplanResult is the replan draft: nothing is committed until the
// operator posts back the chosen entries.
type ReplanResult struct {
	DraftEntries        []domain.ScheduleBlock
	OvertimeSuggestions []OvertimeSuggestionView
	RegularHoursNeeded  float64
	OvertimeHoursNeeded float64
	CanMeetDeadline     bool
	AvailableWorkers    []domain.Worker
	Warnings            []string
}

type ReplanResultView struct {
	DraftEntries        []BlockView              `json:"draft_entries"`
	OvertimeSuggestions []OvertimeSuggestionView `json:"overtime_suggestions"`
	RegularHoursNeeded  float64                  `json:"regular_hours_needed"`
	OvertimeHoursNeeded float64                  `json:"overtime_hours_needed"`
	CanMeetDeadline     bool                     `json:"can_meet_deadline"`
	AvailableWorkers    []WorkerRef              `json:"available_workers"`
	Warnings            []string                 `json:"warnings,omitempty"`
}

type WorkerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (r ReplanResult) View() ReplanResultView {
	v := ReplanResultView{
		DraftEntries:        NewBlockViews(r.DraftEntries),
		OvertimeSuggestions: r.OvertimeSuggestions,
		RegularHoursNeeded:  r.RegularHoursNeeded,
		OvertimeHoursNeeded: r.OvertimeHoursNeeded,
		CanMeetDeadline:     r.CanMeetDeadline,
		Warnings:            r.Warnings,
	}
	for _, w := range r.AvailableWorkers {
		v.AvailableWorkers = append(v.AvailableWorkers, WorkerRef{ID: w.ID, Name: w.Name})
	}
	return v
}

// CommitEntry is one accepted replan block posted back by the operator.
// WorkerNames lists temporary workers to create and assign alongside
// WorkerIDs; dates are YYYY-MM-DD and times HH:MM.
type CommitEntry struct {
	StepID        int64    `json:"step_id"`
	BatchNumber   int      `json:"batch_number"`
	BatchQuantity int      `json:"batch_quantity"`
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	PlannedOutput int      `json:"planned_output"`
	WorkerIDs     []int64  `json:"worker_ids,omitempty"`
	WorkerNames   []string `json:"worker_names,omitempty"`
	IsOvertime    bool     `json:"is_overtime"`
}

// CommitReplanRequest replaces the demand's non-completed plan tasks with
// the accepted entries in one transaction.
type CommitReplanRequest struct {
	DemandID int64
	Entries  []CommitEntry
}

// CommitReplanResult is the demand's full schedule after the commit.
type CommitReplanResult struct {
	WorkersCreated int
	TasksDeleted   int
	TasksCreated   int
	Tasks          []domain.PlanTask
}
