package model

import "time"

// EnquiryStatus is the lifecycle state of a client enquiry.  Statuses
// only ever move forward: NEW -> ACK_SENT -> INVITES_SENT -> CLOSED.
type EnquiryStatus string

const (
	EnquiryNew         EnquiryStatus = "NEW"          // freshly submitted
	EnquiryAckSent     EnquiryStatus = "ACK_SENT"     // confirmation email queued
	EnquiryInvitesSent EnquiryStatus = "INVITES_SENT" // at least one invite round exists
	EnquiryClosed      EnquiryStatus = "CLOSED"       // terminal
)

// enquiryTransitions is the full set of legal enquiry status moves.
// Anything not listed here is rejected centrally by CanTransition, so
// handlers never encode ordering rules in SQL WHERE clauses alone.
var enquiryTransitions = map[EnquiryStatus][]EnquiryStatus{
	EnquiryNew:         {EnquiryAckSent, EnquiryInvitesSent, EnquiryClosed},
	EnquiryAckSent:     {EnquiryInvitesSent, EnquiryClosed},
	EnquiryInvitesSent: {EnquiryInvitesSent, EnquiryClosed}, // repeat invite rounds re-enter the same state
	EnquiryClosed:      {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s EnquiryStatus) CanTransition(next EnquiryStatus) bool {
	for _, allowed := range enquiryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DateFlexibility describes how firm the client's desired date is.
type DateFlexibility string

const (
	FlexFixed       DateFlexibility = "FIXED"
	FlexWithinWeek  DateFlexibility = "WITHIN_WEEK"
	FlexWithinMonth DateFlexibility = "WITHIN_MONTH"
	FlexASAP        DateFlexibility = "ASAP"
)

// Valid reports whether f is one of the accepted flexibility values.
func (f DateFlexibility) Valid() bool {
	switch f {
	case FlexFixed, FlexWithinWeek, FlexWithinMonth, FlexASAP:
		return true
	}
	return false
}

// Enquiry is a client's project request as stored in the `enquiries`
// table.  Rows are created by public submission, advanced by the
// invitation workflow and the admin close action, and never deleted in
// normal operation.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – client contact name.
//  Email           – client email, lowercased.
//  Phone           – client phone number (optional).
//  Service         – requested service category.
//  DateNeeded      – concrete desired date; required when FIXED (nullable).
//  DateFlexibility – FIXED, WITHIN_WEEK, WITHIN_MONTH or ASAP.
//  Postcode        – normalized UK postcode.
//  Brief           – free-text project description.
//  ConsentGiven    – whether the client ticked the contact-consent box.
//  Status          – lifecycle state, monotonic.
//  ClosedAt        – stamp set when an admin closes the enquiry (nullable).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Enquiry struct {
	ID              uint64          // enquiries.id
	Name            string          // enquiries.name
	Email           string          // enquiries.email
	Phone           string          // enquiries.phone
	Service         string          // enquiries.service
	DateNeeded      *time.Time      // enquiries.date_needed (nullable)
	DateFlexibility DateFlexibility // enquiries.date_flexibility
	Postcode        string          // enquiries.postcode
	Brief           string          // enquiries.brief
	ConsentGiven    bool            // enquiries.consent_given
	Status          EnquiryStatus   // enquiries.status
	ClosedAt        *time.Time      // enquiries.closed_at (nullable)
	CreatedAt       time.Time       // enquiries.created_at
	UpdatedAt       time.Time       // enquiries.updated_at
}
