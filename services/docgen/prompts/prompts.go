package prompts

import (
	"fmt"
	"strings"
	"time"
)

// PromptBuilder assembles the instruction text sent to the language model
// for each document kind.
type PromptBuilder struct {
	orgName string
}

func NewPromptBuilder(orgName string) *PromptBuilder {
	return &PromptBuilder{orgName: orgName}
}

func (pb *PromptBuilder) BuildMinutesPrompt(title, meetingDate string, attendees []string, transcript string) string {
	var b strings.Builder
	b.WriteString("You are the secretary of the student council \"" + pb.orgName + "\".\n")
	b.WriteString("Write formal meeting minutes from the raw notes below.\n")
	b.WriteString("Structure: header (title, date, attendees), agenda summary, decisions taken, action items with owners.\n")
	b.WriteString("Keep the tone official and concise. Output plain text only, no markdown fences.\n\n")
	fmt.Fprintf(&b, "Title: %s\nDate: %s\n", title, meetingDate)
	if len(attendees) > 0 {
		fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(attendees, ", "))
	}
	b.WriteString("\nRaw notes:\n")
	b.WriteString(transcript)
	return b.String()
}

func (pb *PromptBuilder) BuildLetterPrompt(kind, number, recipient, subject string, points []string) string {
	var b strings.Builder
	b.WriteString("You are the secretary of the student council \"" + pb.orgName + "\".\n")
	fmt.Fprintf(&b, "Draft an official %s letter.\n", kind)
	b.WriteString("Structure: letterhead placeholder, letter number, date, recipient, subject, opening, body covering every point, closing, signature block.\n")
	b.WriteString("Keep the register formal. Output plain text only, no markdown fences.\n\n")
	if number != "" {
		fmt.Fprintf(&b, "Letter number: %s\n", number)
	}
	fmt.Fprintf(&b, "Recipient: %s\nSubject: %s\nPoints to cover:\n", recipient, subject)
	for _, p := range points {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	return b.String()
}

func (pb *PromptBuilder) BuildBriefingPrompt(date time.Time, items []string) string {
	var b strings.Builder
	b.WriteString("You are the secretary of the student council \"" + pb.orgName + "\".\n")
	b.WriteString("Write a short daily briefing for the board from the items below.\n")
	b.WriteString("One paragraph per item, lead with the most urgent. Output plain text only.\n\n")
	if !date.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", date.Format("2006-01-02"))
	}
	b.WriteString("Items:\n")
	for _, it := range items {
		fmt.Fprintf(&b, "- %s\n", it)
	}
	return b.String()
}
