package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hiredronepilots/api/internal/model"
)

func TestSubmittedStatus(t *testing.T) {
	boom := errors.New("broker down")

	assert.Equal(t, model.EnquiryAckSent, submittedStatus(nil, nil),
		"ack queued and row advanced: the caller sees ACK_SENT")
	assert.Equal(t, model.EnquiryNew, submittedStatus(boom, boom),
		"mail failure leaves the enquiry reported as NEW")
	assert.Equal(t, model.EnquiryNew, submittedStatus(nil, boom),
		"advance failure must not claim a status the row does not have")
}
