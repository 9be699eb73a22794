package models

// RequestType values for person requests. Only DO_NOT_SCHEDULE is consulted
// by the allocator; other types pass through as operator annotations.
const (
	DoNotSchedule = "DO_NOT_SCHEDULE"
)

// PersonRequest is a per-person scheduling constraint window.
type PersonRequest struct {
	PersonID    string `json:"personId"`
	RequestID   string `json:"requestId,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	RequestType string `json:"requestType"`
}

// PersonRequests groups requests by person id.
type PersonRequests map[string][]PersonRequest

// MatchUpDailyLimits caps how many matchUps a participant may play per day.
// Nil fields mean no cap of that kind.
type MatchUpDailyLimits struct {
	Singles *int `json:"SINGLES,omitempty"`
	Doubles *int `json:"DOUBLES,omitempty"`
	Total   *int `json:"total,omitempty"`
}

// LimitFor returns the cap for a matchUp type, or nil when uncapped.
func (l *MatchUpDailyLimits) LimitFor(matchUpType MatchUpType) *int {
	if l == nil {
		return nil
	}
	switch matchUpType {
	case Singles:
		return l.Singles
	case Doubles:
		return l.Doubles
	}
	return nil
}
