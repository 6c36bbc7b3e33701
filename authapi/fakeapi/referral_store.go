package fakeapi

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/referral-portal/internal/errors"
	"github.com/jrsteele09/referral-portal/referrals"
)

// resumePathPrefix is where uploaded resumes are served. Stored referrals keep the
// path; the list handler turns it into an absolute URL for the caller's host.
const resumePathPrefix = "/media/resumes/"

type referralStore struct {
	lock    sync.RWMutex
	items   map[int64]*referrals.Referral
	resumes map[int64][]byte
	nextID  int64
}

func newReferralStore() *referralStore {
	return &referralStore{
		items:   make(map[int64]*referrals.Referral),
		resumes: make(map[int64][]byte),
	}
}

func resumeFileName(id int64) string {
	return fmt.Sprintf("referral_%d.pdf", id)
}

func (rs *referralStore) Add(sub referrals.Submission, resume []byte, referredBy int64, now time.Time) referrals.Referral {
	rs.lock.Lock()
	defer rs.lock.Unlock()

	rs.nextID++
	r := &referrals.Referral{
		ID:          rs.nextID,
		FullName:    sub.FullName,
		Email:       sub.Email,
		PhoneNumber: sub.PhoneNumber,
		Department:  sub.Department,
		Role:        sub.Role,
		Status:      referrals.StatusReceived,
		CreatedAt:   now.UTC().Format(time.RFC3339),
		ReferredBy:  referredBy,
	}
	if sub.LinkedInURL != "" {
		linkedIn := sub.LinkedInURL
		r.LinkedInURL = &linkedIn
	}
	if len(resume) > 0 {
		r.Resume = resumePathPrefix + resumeFileName(r.ID)
		rs.resumes[r.ID] = resume
	}
	rs.items[r.ID] = r
	return *r
}

func (rs *referralStore) List() []referrals.Referral {
	rs.lock.RLock()
	defer rs.lock.RUnlock()

	out := make([]referrals.Referral, 0, len(rs.items))
	for _, r := range rs.items {
		out = append(out, *r)
	}
	return out
}

func (rs *referralStore) UpdateStatus(id int64, status referrals.Status, notes string) error {
	rs.lock.Lock()
	defer rs.lock.Unlock()

	r, ok := rs.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.Status = status
	r.Notes = notes
	return nil
}

// Resume returns the stored file for a resume file name such as referral_3.pdf.
func (rs *referralStore) Resume(name string) ([]byte, bool) {
	idText, ok := strings.CutPrefix(name, "referral_")
	if !ok {
		return nil, false
	}
	idText, ok = strings.CutSuffix(idText, ".pdf")
	if !ok {
		return nil, false
	}
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return nil, false
	}

	rs.lock.RLock()
	defer rs.lock.RUnlock()
	data, ok := rs.resumes[id]
	return data, ok
}
