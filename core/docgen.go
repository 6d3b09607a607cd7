package core

import (
	"context"
	"time"
)

type (
	MinutesRequest struct {
		Title       string   `json:"title" validate:"required"`
		MeetingDate string   `json:"meeting_date" validate:"required"`
		Attendees   []string `json:"attendees"`
		Transcript  string   `json:"transcript" validate:"required"`
	}

	LetterRequest struct {
		Kind      string   `json:"kind" validate:"required"` // invitation, permission, announcement...
		Number    string   `json:"number"`
		Recipient string   `json:"recipient" validate:"required"`
		Subject   string   `json:"subject" validate:"required"`
		Points    []string `json:"points" validate:"required,min=1"`
	}

	BriefingRequest struct {
		Date  time.Time `json:"date"`
		Items []string  `json:"items" validate:"required,min=1"`
	}

	// DocumentGenerator is any service that can draft organizational documents
	// from raw inputs.
	DocumentGenerator interface {
		MeetingMinutes(ctx context.Context, req MinutesRequest) (string, error)
		OfficialLetter(ctx context.Context, req LetterRequest) (string, error)
		DailyBriefing(ctx context.Context, req BriefingRequest) (string, error)
	}
)
