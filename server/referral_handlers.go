package server

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/referral-portal/auth"
	"github.com/jrsteele09/referral-portal/authapi"
	apperrors "github.com/jrsteele09/referral-portal/internal/errors"
	"github.com/jrsteele09/referral-portal/referrals"
	"github.com/rs/zerolog/log"
)

const (
	sessionExpiredMessage   = "Your session has expired. Please sign in again."
	referralSavedMessage    = "Referral submitted successfully."
	statusUpdatedMessage    = "Referral status updated."
	multipartOverheadBytes  = 1 << 20
	maxReferralRequestBytes = referrals.MaxResumeSize + multipartOverheadBytes
)

// ReferralFormPageData contains data for rendering the referral form
type ReferralFormPageData struct {
	pageData
	Form referrals.Submission
}

// DashboardPageData contains data for rendering the HR dashboard
type DashboardPageData struct {
	pageData
	Lists referrals.Lists
}

// ReferralFormHandler shows the empty referral form (GET /referral-form).
func (s *Server) ReferralFormHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("referral_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		s.renderHTML(w, formTmpl, http.StatusOK, ReferralFormPageData{pageData: s.page(r, true)})
	}
}

// ReferralSubmissionHandler sends a referral to the API (POST /referral-form).
// Invalid input re-renders the form with what the employee typed.
func (s *Server) ReferralSubmissionHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("referral_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sessionFromContext(r.Context())

		renderError := func(sub referrals.Submission, msg string, status int) {
			data := ReferralFormPageData{pageData: s.page(r, true), Form: sub}
			data.Error = msg
			s.renderHTML(w, formTmpl, status, data)
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxReferralRequestBytes)
		if err := r.ParseMultipartForm(multipartOverheadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				renderError(referrals.Submission{}, referrals.ErrResumeTooLarge.Error(), http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		// r is a middleware copy, so net/http will not remove these files itself.
		defer removeMultipartFiles(r)

		sub := referrals.Submission{
			FullName:    strings.TrimSpace(r.FormValue("fullname")),
			Email:       strings.TrimSpace(r.FormValue("email")),
			PhoneNumber: strings.TrimSpace(r.FormValue("phone_number")),
			LinkedInURL: strings.TrimSpace(r.FormValue("linkedin_url")),
			Department:  strings.TrimSpace(r.FormValue("department")),
			Role:        strings.TrimSpace(r.FormValue("role")),
		}
		if err := sub.Validate(); err != nil {
			renderError(sub, err.Error(), http.StatusBadRequest)
			return
		}

		resume, err := readResume(r)
		if err != nil {
			renderError(sub, err.Error(), http.StatusBadRequest)
			return
		}
		sub.Resume = resume

		result, err := s.referrals.SaveReferral(r.Context(), sess.AccessToken, sub)
		if err != nil {
			if s.expireOnForbidden(w, r, err) {
				return
			}
			log.Err(err).Msg("[Server ReferralSubmissionHandler] saving referral")
			renderError(sub, apiMessage(err), http.StatusBadGateway)
			return
		}

		msg := referralSavedMessage
		if result != nil && result.Message != "" {
			msg = result.Message
		}
		redirectSuccess(w, r, RouteReferralForm+"?success="+url.QueryEscape(msg))
	}
}

// readResume returns the base64 encoded resume, or "" when no file was attached.
func readResume(r *http.Request) (string, error) {
	file, header, err := r.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	if header.Size > referrals.MaxResumeSize {
		return "", referrals.ErrResumeTooLarge
	}
	if !strings.EqualFold(fileExt(header.Filename), ".pdf") {
		return "", referrals.ErrResumeNotPDF
	}
	data, err := io.ReadAll(io.LimitReader(file, referrals.MaxResumeSize+1))
	if err != nil {
		return "", err
	}
	return referrals.EncodeResume(data)
}

// removeMultipartFiles deletes the temporary files holding uploaded parts.
func removeMultipartFiles(r *http.Request) {
	if r.MultipartForm == nil {
		return
	}
	if err := r.MultipartForm.RemoveAll(); err != nil {
		log.Err(err).Msg("[Server ReferralSubmissionHandler] removing uploaded files")
	}
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// DashboardHandler lists every referral grouped by bucket (GET /dashboard).
func (s *Server) DashboardHandler() http.HandlerFunc {
	dashboardTmpl := mustParseTemplate("dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sessionFromContext(r.Context())
		data := DashboardPageData{
			pageData: s.page(r, true),
			Lists:    referrals.Group(nil),
		}

		lists, err := s.referrals.ListReferrals(r.Context(), sess.AccessToken)
		if err != nil {
			if s.expireOnForbidden(w, r, err) {
				return
			}
			log.Err(err).Msg("[Server DashboardHandler] listing referrals")
			data.Error = apiMessage(err)
			s.renderHTML(w, dashboardTmpl, http.StatusBadGateway, data)
			return
		}

		data.Lists = lists
		s.renderHTML(w, dashboardTmpl, http.StatusOK, data)
	}
}

// DashboardStatusHandler changes one referral's status (POST /dashboard/status).
func (s *Server) DashboardStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sessionFromContext(r.Context())

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
		if err != nil {
			redirectWithError(w, r, RouteDashboard, "Invalid referral id", "")
			return
		}
		status, err := referrals.ParseStatus(r.FormValue("status"))
		if err != nil {
			redirectWithError(w, r, RouteDashboard, "Invalid referral status", "")
			return
		}
		upd := referrals.StatusUpdate{ID: id, Status: status, Notes: strings.TrimSpace(r.FormValue("notes"))}
		if err := upd.Validate(); err != nil {
			redirectWithError(w, r, RouteDashboard, "Invalid status update", "")
			return
		}

		result, err := s.referrals.UpdateReferralStatus(r.Context(), sess.AccessToken, upd)
		if err != nil {
			if s.expireOnForbidden(w, r, err) {
				return
			}
			log.Err(err).Int64("referral_id", id).Msg("[Server DashboardStatusHandler] updating status")
			redirectWithError(w, r, RouteDashboard, apiMessage(err), "")
			return
		}

		msg := statusUpdatedMessage
		if result != nil && result.Message != "" {
			msg = result.Message
		}
		redirectSuccess(w, r, RouteDashboard+"?success="+url.QueryEscape(msg))
	}
}

// expireOnForbidden ends the local session when the API no longer accepts its token.
func (s *Server) expireOnForbidden(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apperrors.ErrForbidden) {
		return false
	}
	log.Info().Err(err).Msg("[Server] access token refused, ending session")
	s.auth.Logout(r.Context(), s.stores.Store(w, r))
	redirectWithError(w, r, RouteLogin, sessionExpiredMessage, "")
	return true
}

// apiMessage picks the API's own wording for a rejected request and a generic
// message for everything else.
func apiMessage(err error) string {
	var apiErr *authapi.APIError
	if errors.As(err, &apiErr) && apiErr.Rejected() && apiErr.Message != "" {
		return apiErr.Message
	}
	return auth.UserMessage(err)
}
