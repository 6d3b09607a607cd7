package docgensvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/osisproject0-hub/osis-sub000/core"
)

// stubService drafts documents from templates without calling the model.
// It backs DEV environments and tests.
type stubService struct{}

var _ core.DocumentGenerator = (*stubService)(nil)

func NewStubService() core.DocumentGenerator {
	return &stubService{}
}

func (stubService) MeetingMinutes(_ context.Context, req core.MinutesRequest) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "MEETING MINUTES\n%s\nDate: %s\n", req.Title, req.MeetingDate)
	if len(req.Attendees) > 0 {
		fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(req.Attendees, ", "))
	}
	fmt.Fprintf(&b, "\nNotes:\n%s\n", req.Transcript)
	return b.String(), nil
}

func (stubService) OfficialLetter(_ context.Context, req core.LetterRequest) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "OFFICIAL LETTER (%s)\n", req.Kind)
	if req.Number != "" {
		fmt.Fprintf(&b, "No: %s\n", req.Number)
	}
	fmt.Fprintf(&b, "To: %s\nSubject: %s\n\n", req.Recipient, req.Subject)
	for _, p := range req.Points {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	return b.String(), nil
}

func (stubService) DailyBriefing(_ context.Context, req core.BriefingRequest) (string, error) {
	var b strings.Builder
	b.WriteString("DAILY BRIEFING\n")
	if !req.Date.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", req.Date.Format("2006-01-02"))
	}
	b.WriteString("\n")
	for _, it := range req.Items {
		fmt.Fprintf(&b, "- %s\n", it)
	}
	return b.String(), nil
}
