package dto

import "github.com/courtkeeper/scheduling-api/internal/models"

// PersonRequestsPayload adds or replaces DO_NOT_SCHEDULE windows.
type PersonRequestsPayload struct {
	Requests []models.PersonRequest `json:"requests" validate:"required,min=1,dive"`
}

// RemovePersonRequestsPayload removes windows. Empty dates removes every
// request of the type for the person.
type RemovePersonRequestsPayload struct {
	PersonIDs   []string `json:"personIds" validate:"required,min=1"`
	Dates       []string `json:"dates,omitempty"`
	RequestType string   `json:"requestType,omitempty"`
}
