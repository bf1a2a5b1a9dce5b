// Package queue defines message payloads exchanged over the message broker.
package queue

// EmailQueueName is the durable queue carrying all outbound mail.
const EmailQueueName = "email.outbound"

// OutboundEmail is published for every email the platform sends:
// enquiry acknowledgements, magic links, pilot invitations and approval
// notices.  The dispatching consumer owns delivery; the publishing
// request never waits on it.  Raw tokens appear here only inside the
// action URL, which is the one place they are allowed to travel.
type OutboundEmail struct {
	Template  string            `json:"template"` // enquiry_ack | magic_link | pilot_invite | application_received | application_approved
	To        string            `json:"to"`
	Subject   string            `json:"subject"`
	ActionURL string            `json:"action_url,omitempty"`
	Vars      map[string]string `json:"vars,omitempty"`
	QueuedAt  string            `json:"queued_at"`
}
