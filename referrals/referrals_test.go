package referrals_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jrsteele09/referral-portal/referrals"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]referrals.Status{
		"received":    referrals.StatusReceived,
		"Shortlisted": referrals.StatusShortlisted,
		"on_hold":     referrals.StatusOnHold,
		"onhold":      referrals.StatusOnHold,
		"on-hold":     referrals.StatusOnHold,
		" hired ":     referrals.StatusHired,
		"rejected":    referrals.StatusRejected,
	} {
		got, err := referrals.ParseStatus(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := referrals.ParseStatus("archived")
	require.Error(t, err)
}

func TestStatus_DecodeKeepsUnknown(t *testing.T) {
	var items []referrals.Referral
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"status":"onhold"},{"id":2,"status":"archived"}]`), &items))
	require.Equal(t, referrals.StatusOnHold, items[0].Status)
	require.Equal(t, referrals.Status("archived"), items[1].Status)
	require.False(t, items[1].Status.Valid())
	require.Equal(t, "On-hold", items[0].Status.Label())
}

func TestGroup(t *testing.T) {
	items := []referrals.Referral{
		{ID: 5, Status: referrals.StatusHired},
		{ID: 3, Status: referrals.StatusOnHold},
		{ID: 1, Status: referrals.StatusReceived},
		{ID: 2, Status: referrals.StatusShortlisted},
		{ID: 4, Status: referrals.StatusRejected},
		{ID: 6, Status: referrals.Status("archived")},
	}

	lists := referrals.Group(items)
	require.Equal(t, 6, lists.Total())
	require.Equal(t, []int64{1, 6}, ids(lists.New))
	require.Equal(t, []int64{2, 3}, ids(lists.Active))
	require.Equal(t, []int64{4, 5}, ids(lists.History))

	empty := referrals.Group(nil)
	require.NotNil(t, empty.New)
	require.Zero(t, empty.Total())
}

func ids(items []referrals.Referral) []int64 {
	out := make([]int64, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}

func TestSubmission_Validate(t *testing.T) {
	valid := referrals.Submission{
		FullName:   "Ada Lovelace",
		Email:      "ada@example.com",
		Department: "Engineering",
		Role:       "Backend Developer",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*referrals.Submission)
		msg    string
	}{
		{"missing name", func(s *referrals.Submission) { s.FullName = "" }, "Full Name is required"},
		{"bad email", func(s *referrals.Submission) { s.Email = "nope" }, "Invalid email address"},
		{"bad linkedin", func(s *referrals.Submission) { s.LinkedInURL = "not a url" }, "LinkedIn URL is invalid"},
		{"missing department", func(s *referrals.Submission) { s.Department = "" }, "Department is required"},
		{"missing role", func(s *referrals.Submission) { s.Role = "" }, "Role is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			require.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestStatusUpdate_Validate(t *testing.T) {
	require.NoError(t, referrals.StatusUpdate{ID: 1, Status: referrals.StatusHired}.Validate())
	require.Error(t, referrals.StatusUpdate{Status: referrals.StatusHired}.Validate())
	require.Error(t, referrals.StatusUpdate{ID: 1, Status: "archived"}.Validate())
}

func TestEncodeResume(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	enc, err := referrals.EncodeResume(pdf)
	require.NoError(t, err)
	dec, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	require.Equal(t, pdf, dec)

	enc, err = referrals.EncodeResume(nil)
	require.NoError(t, err)
	require.Empty(t, enc)

	_, err = referrals.EncodeResume([]byte("plain text resume"))
	require.ErrorIs(t, err, referrals.ErrResumeNotPDF)

	big := []byte("%PDF-" + strings.Repeat("x", referrals.MaxResumeSize))
	_, err = referrals.EncodeResume(big)
	require.ErrorIs(t, err, referrals.ErrResumeTooLarge)
}
