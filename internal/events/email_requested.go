package events

import "time"

const EmailRequestedTopic = "notification.email.requested.v1"

// EmailRequestedEvent is the rendered message handed to the external
// mail transport through the relay topic.
type EmailRequestedEvent struct {
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	HTMLBody   string    `json:"html_body"`
	TextBody   string    `json:"text_body"`
	OccurredAt time.Time `json:"occurred_at"`
}
