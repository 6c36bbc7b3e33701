// Package referrals holds the referral data model shared by the portal views and
// the Referral API client: submission payloads, list items and status updates.
package referrals

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MaxResumeSize is the largest resume accepted for upload.
const MaxResumeSize = 5 << 20

const pdfContentType = "application/pdf"

var (
	ErrResumeTooLarge = errors.New("Max file size is 5MB.")
	ErrResumeNotPDF   = errors.New("Only .pdf files are accepted.")
)

// Referral is one row of the HR referral list.
type Referral struct {
	ID          int64   `json:"id"`
	Resume      string  `json:"resume"`
	FullName    string  `json:"fullname"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	LinkedInURL *string `json:"linkedin_url"`
	Department  string  `json:"department"`
	Role        string  `json:"role"`
	Status      Status  `json:"status"`
	Notes       string  `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
	ReferredBy  int64   `json:"referred_by"`
}

// Lists groups referrals the way the HR dashboard shows them.
type Lists struct {
	New     []Referral `json:"new"`
	Active  []Referral `json:"active"`
	History []Referral `json:"history"`
}

// Total is the number of referrals across all buckets.
func (l Lists) Total() int {
	return len(l.New) + len(l.Active) + len(l.History)
}

// Group sorts referrals into their buckets, keeping id order within each.
func Group(items []Referral) Lists {
	sorted := make([]Referral, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	lists := Lists{New: []Referral{}, Active: []Referral{}, History: []Referral{}}
	for _, r := range sorted {
		switch r.Status.Bucket() {
		case BucketActive:
			lists.Active = append(lists.Active, r)
		case BucketHistory:
			lists.History = append(lists.History, r)
		default:
			lists.New = append(lists.New, r)
		}
	}
	return lists
}

// Submission is what an employee fills in on the referral form.
type Submission struct {
	FullName    string `json:"fullname" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number"`
	LinkedInURL string `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	Department  string `json:"department" validate:"required"`
	Role        string `json:"role" validate:"required"`
	// Resume is the base64 encoded PDF; empty when none was attached.
	Resume string `json:"resume"`
}

// StatusUpdate changes the status of one referral.
type StatusUpdate struct {
	ID     int64  `json:"id" validate:"required,gt=0"`
	Status Status `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// Result is the acknowledgement body the Referral API returns for writes.
type Result struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks the submission fields and returns a message per failed field.
func (s Submission) Validate() error {
	if err := engine().Struct(s); err != nil {
		return errors.New(submissionMessage(err))
	}
	return nil
}

// Validate checks the update has a target and a known status.
func (u StatusUpdate) Validate() error {
	if err := engine().Struct(u); err != nil {
		return fmt.Errorf("invalid status update: %w", err)
	}
	if !u.Status.Valid() {
		return fmt.Errorf("unknown referral status %q", u.Status)
	}
	return nil
}

func submissionMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Invalid referral"
	}
	switch fe := verrs[0]; fe.Field() {
	case "FullName":
		return "Full Name is required"
	case "Email":
		if fe.Tag() == "email" {
			return "Invalid email address"
		}
		return "Email is required"
	case "LinkedInURL":
		return "LinkedIn URL is invalid"
	case "Department":
		return "Department is required"
	case "Role":
		return "Role is required"
	default:
		return "Invalid referral"
	}
}

// EncodeResume checks that data is a PDF of at most MaxResumeSize bytes and
// returns it base64 encoded. Empty data encodes to an empty string.
func EncodeResume(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if len(data) > MaxResumeSize {
		return "", ErrResumeTooLarge
	}
	if http.DetectContentType(data) != pdfContentType {
		return "", ErrResumeNotPDF
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
