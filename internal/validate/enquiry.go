package validate

import (
	"time"

	"github.com/hiredronepilots/api/internal/apperr"
	"github.com/hiredronepilots/api/internal/model"
)

// serviceCategories is the whitelist of bookable service types shown on
// the enquiry form.
var serviceCategories = map[string]bool{
	"AERIAL_PHOTOGRAPHY": true,
	"AERIAL_VIDEOGRAPHY": true,
	"SURVEY_MAPPING":     true,
	"INSPECTION":         true,
	"THERMAL_IMAGING":    true,
	"AGRICULTURE":        true,
	"EVENT_COVERAGE":     true,
	"OTHER":              true,
}

// EnquiryInput is the raw enquiry submission payload before validation.
type EnquiryInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Service         string `json:"service"`
	DateNeeded      string `json:"date_needed"`      // YYYY-MM-DD
	DateFlexibility string `json:"date_flexibility"` // FIXED | WITHIN_WEEK | WITHIN_MONTH | ASAP
	Postcode        string `json:"postcode"`
	Brief           string `json:"brief"`
	Consent         bool   `json:"consent"`
}

// EnquiryRecord is a fully validated enquiry ready for insertion.
type EnquiryRecord struct {
	Name            string
	Email           string
	Phone           string
	Service         string
	DateNeeded      *time.Time
	DateFlexibility model.DateFlexibility
	Postcode        string
	Brief           string
	ConsentGiven    bool
}

// Enquiry validates a public enquiry submission.  FIXED date
// flexibility requires a concrete date; every other flexibility treats
// the date as optional.
func Enquiry(in EnquiryInput) (*EnquiryRecord, error) {
	name, err := requireField("Name", in.Name, maxFieldLen)
	if err != nil {
		return nil, err
	}
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	svc := optionalField(in.Service, maxFieldLen)
	if !serviceCategories[svc] {
		return nil, apperr.Validation("Service is not a recognized category")
	}
	flex := model.DateFlexibility(optionalField(in.DateFlexibility, maxFieldLen))
	if !flex.Valid() {
		return nil, apperr.Validation("Date flexibility must be FIXED, WITHIN_WEEK, WITHIN_MONTH or ASAP")
	}
	var dateNeeded *time.Time
	if raw := optionalField(in.DateNeeded, maxFieldLen); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, apperr.Validation("Date needed must be formatted YYYY-MM-DD")
		}
		dateNeeded = &t
	}
	if flex == model.FlexFixed && dateNeeded == nil {
		return nil, apperr.Validation("Date is required when date flexibility is FIXED")
	}
	postcode, err := NormalizePostcode(in.Postcode)
	if err != nil {
		return nil, err
	}
	brief, err := requireField("Brief", in.Brief, maxTextLen)
	if err != nil {
		return nil, err
	}
	if !in.Consent {
		return nil, apperr.Validation("Consent is required to process the enquiry")
	}
	return &EnquiryRecord{
		Name:            name,
		Email:           email,
		Phone:           optionalField(in.Phone, maxFieldLen),
		Service:         svc,
		DateNeeded:      dateNeeded,
		DateFlexibility: flex,
		Postcode:        postcode,
		Brief:           brief,
		ConsentGiven:    true,
	}, nil
}
