package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiredronepilots/api/internal/model"
)

func TestNormalizeEmail(t *testing.T) {
	got, err := NormalizeEmail("  Jane.Doe@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", got)

	for _, bad := range []string{"", "not-an-email", "two@@example.com", "no-domain@"} {
		_, err := NormalizeEmail(bad)
		assert.Error(t, err, "email %q", bad)
	}
}

func TestNormalizeURL(t *testing.T) {
	got, err := NormalizeURL("skyviewdrones.co.uk")
	require.NoError(t, err)
	assert.Equal(t, "https://skyviewdrones.co.uk", got, "missing scheme gets https://")

	got, err = NormalizeURL("http://skyviewdrones.co.uk/about")
	require.NoError(t, err)
	assert.Equal(t, "http://skyviewdrones.co.uk/about", got)

	got, err = NormalizeURL("")
	require.NoError(t, err)
	assert.Empty(t, got, "website is optional")

	_, err = NormalizeURL("ftp://skyviewdrones.co.uk")
	assert.Error(t, err)
	_, err = NormalizeURL("https://nodots")
	assert.Error(t, err)
}

func TestNormalizePostcode(t *testing.T) {
	got, err := NormalizePostcode(" sw1a 1aa ")
	require.NoError(t, err)
	assert.Equal(t, "SW1A 1AA", got)

	got, err = NormalizePostcode("m1 1ae")
	require.NoError(t, err)
	assert.Equal(t, "M1 1AE", got)

	for _, bad := range []string{"", "12345", "SW1A", "NOT A CODE"} {
		_, err := NormalizePostcode(bad)
		assert.Error(t, err, "postcode %q", bad)
	}
}

func validEnquiry() EnquiryInput {
	return EnquiryInput{
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Service:         "AERIAL_PHOTOGRAPHY",
		DateFlexibility: "ASAP",
		Postcode:        "SW1A 1AA",
		Brief:           "Roof survey of a Victorian terrace.",
		Consent:         true,
	}
}

func TestEnquiryValid(t *testing.T) {
	rec, err := Enquiry(validEnquiry())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", rec.Email)
	assert.Equal(t, model.FlexASAP, rec.DateFlexibility)
	assert.Nil(t, rec.DateNeeded)
	assert.True(t, rec.ConsentGiven)
}

func TestEnquiryFixedRequiresDate(t *testing.T) {
	in := validEnquiry()
	in.DateFlexibility = "FIXED"
	_, err := Enquiry(in)
	require.Error(t, err)
	assert.Equal(t, "Date is required when date flexibility is FIXED", err.Error())

	in.DateNeeded = "2026-09-12"
	rec, err := Enquiry(in)
	require.NoError(t, err)
	require.NotNil(t, rec.DateNeeded)
	assert.Equal(t, "2026-09-12", rec.DateNeeded.Format("2006-01-02"))
}

func TestEnquiryRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EnquiryInput)
	}{
		{"missing name", func(in *EnquiryInput) { in.Name = "  " }},
		{"unknown service", func(in *EnquiryInput) { in.Service = "SKYWRITING" }},
		{"unknown flexibility", func(in *EnquiryInput) { in.DateFlexibility = "SOMETIME" }},
		{"bad date format", func(in *EnquiryInput) { in.DateNeeded = "12/09/2026" }},
		{"missing brief", func(in *EnquiryInput) { in.Brief = "" }},
		{"no consent", func(in *EnquiryInput) { in.Consent = false }},
		{"over-long brief", func(in *EnquiryInput) { in.Brief = strings.Repeat("x", 5001) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validEnquiry()
			tc.mutate(&in)
			_, err := Enquiry(in)
			assert.Error(t, err)
		})
	}
}

func TestApplicationValid(t *testing.T) {
	rec, err := Application(ApplicationInput{
		Name:       "Sky High Media Ltd",
		Email:      "OPS@SkyHigh.co.uk",
		Location:   "Manchester",
		WebsiteURL: "skyhigh.co.uk",
		Experience: "Five years of commercial survey work.",
	})
	require.NoError(t, err)
	assert.Equal(t, "ops@skyhigh.co.uk", rec.Email)
	assert.Equal(t, "https://skyhigh.co.uk", rec.WebsiteURL)
}

func TestSelectionDedupes(t *testing.T) {
	sel, err := Selection(InviteSelectionInput{
		IncludePilotIDs: []uint64{3, 0, 3, 7},
		ExcludePilotIDs: []uint64{7, 7, 9},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 7}, sel.Include)
	assert.Equal(t, []uint64{7, 9}, sel.Exclude)
}

func TestSelectionAllZeroIncludes(t *testing.T) {
	_, err := Selection(InviteSelectionInput{IncludePilotIDs: []uint64{0, 0}})
	assert.Error(t, err, "a non-empty include list of only invalid ids is a caller mistake")
}
