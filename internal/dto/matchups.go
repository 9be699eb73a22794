package dto

import "github.com/courtkeeper/scheduling-api/internal/models"

// MatchUpContextID locates one matchUp inside a tournament snapshot.
type MatchUpContextID struct {
	MatchUpID string `json:"matchUpId" validate:"required"`
	DrawID    string `json:"drawId,omitempty"`
}

// BulkScheduleRequest applies one schedule to a set of matchUps.
type BulkScheduleRequest struct {
	MatchUpContextIDs   []MatchUpContextID `json:"matchUpContextIds" validate:"required,min=1,dive"`
	Schedule            models.Schedule    `json:"schedule" validate:"required"`
	ScheduleByeMatchUps bool               `json:"scheduleByeMatchUps,omitempty"`
}

// BulkScheduleResult reports which matchUps received the schedule.
type BulkScheduleResult struct {
	ScheduledMatchUpIDs []string `json:"scheduledMatchUpIds"`
	SkippedMatchUpIDs   []string `json:"skippedMatchUpIds,omitempty"`
}

// CourtAssignment binds one matchUp to a court for a day.
type CourtAssignment struct {
	MatchUpID string `json:"matchUpId" validate:"required"`
	CourtID   string `json:"courtId" validate:"required"`
}

// BulkCourtAssignmentsRequest applies court assignments for one day.
type BulkCourtAssignmentsRequest struct {
	CourtAssignments []CourtAssignment `json:"courtAssignments" validate:"required,min=1,dive"`
	CourtDayDate     string            `json:"courtDayDate" validate:"required"`
}

// MatchUpStatusRequest updates one matchUp's status.
type MatchUpStatusRequest struct {
	MatchUpID     string               `json:"matchUpId" validate:"required"`
	MatchUpStatus models.MatchUpStatus `json:"matchUpStatus" validate:"required"`
}

// WinningSideRequest records the outcome of one matchUp.
type WinningSideRequest struct {
	MatchUpID   string `json:"matchUpId" validate:"required"`
	WinningSide int    `json:"winningSide" validate:"required,oneof=1 2"`
}
