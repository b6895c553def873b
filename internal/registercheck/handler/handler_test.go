package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/platform/middleware/auth"
	"regcheck/pkg/testutil"
)

type stubService struct {
	pending      []*models.RegisterCheck
	pendingErr   error
	requested    []id.JurisdictionCode
	credential   string
	submitted    *models.Result
	payload      []byte
	submitStatus models.Status
	submitErr    error
	admin        []models.PendingSummary
	adminErr     error
	adminFor     id.AuthorityID
}

func (s *stubService) PendingFor(_ context.Context, credential string, requested []id.JurisdictionCode) ([]*models.RegisterCheck, error) {
	s.credential = credential
	s.requested = requested
	return s.pending, s.pendingErr
}

func (s *stubService) SubmitResult(_ context.Context, credential string, result *models.Result, payload []byte) (models.Status, error) {
	s.credential = credential
	s.submitted = result
	s.payload = payload
	return s.submitStatus, s.submitErr
}

func (s *stubService) AdminPending(_ context.Context, authority id.AuthorityID) ([]models.PendingSummary, error) {
	s.adminFor = authority
	return s.admin, s.adminErr
}

func (s *stubService) PageSize() int { return 100 }

type HandlerSuite struct {
	suite.Suite
	service *stubService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.service = &stubService{}
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
	h.RegisterAdmin(s.router)
}

func withSerial(req *http.Request) *http.Request {
	req.Header.Set(auth.HeaderClientCertificateSerial, "serial-1")
	return req
}

// =============================================================================
// GET /registerchecks
// =============================================================================

func (s *HandlerSuite) TestListPending() {
	s.Run("missing credential is unauthorized", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(http.MethodGet, "/registerchecks", ""))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("parses and upper-cases requested codes", func() {
		created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
		check := &models.RegisterCheck{
			CorrelationID:    id.NewCorrelationID(),
			JurisdictionCode: "E09",
			CreatedBy:        "system",
			CreatedAt:        created,
			PersonalDetail:   models.PersonalDetail{FirstName: "Ada", Surname: "Lovelace"},
		}
		s.service.pending = []*models.RegisterCheck{check}

		req := withSerial(testutil.NewRequestWithBody(http.MethodGet, "/registerchecks?jurisdictions=e09,%20w06", ""))
		rr := testutil.DoRequest(s.router, req)

		s.Equal(http.StatusOK, rr.Code)
		s.Equal("serial-1", s.service.credential)
		s.Equal([]id.JurisdictionCode{"E09", "W06"}, s.service.requested)

		body := testutil.UnmarshalResponse[PendingChecksResponse](s.T(), rr)
		s.Equal(100, body.PageSize)
		s.Require().Len(body.PendingRegisterChecks, 1)
		s.Equal(check.CorrelationID.String(), body.PendingRegisterChecks[0].RequestID)
		s.Equal("Ada", body.PendingRegisterChecks[0].PersonalDetail.FirstName)
	})

	s.Run("empty result is an empty array", func() {
		s.service.pending = []*models.RegisterCheck{}
		rr := testutil.DoRequest(s.router, withSerial(testutil.NewRequestWithBody(http.MethodGet, "/registerchecks", "")))
		s.Equal(http.StatusOK, rr.Code)
		s.Contains(rr.Body.String(), `"pendingRegisterChecks":[]`)
	})

	s.Run("invalid code is bad request", func() {
		rr := testutil.DoRequest(s.router, withSerial(testutil.NewRequestWithBody(http.MethodGet, "/registerchecks?jurisdictions=a%20b", "")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("upstream failure hides the description", func() {
		s.service.pendingErr = dErrors.New(dErrors.CodeUpstream, "identity directory unavailable")
		rr := testutil.DoRequest(s.router, withSerial(testutil.NewRequestWithBody(http.MethodGet, "/registerchecks", "")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "upstream_error")
		s.NotContains(rr.Body.String(), "identity directory")
	})
}

// =============================================================================
// POST /registerchecks/{correlationId}
// =============================================================================

func (s *HandlerSuite) TestSubmitResult() {
	cid := id.NewCorrelationID()
	path := "/registerchecks/" + cid.String()
	valid := `{"requestId":"` + cid.String() + `","jurisdictionCode":"e09","createdAt":"2026-04-01T08:00:00Z","matchCount":0,"matches":[]}`

	s.Run("accepted result keeps raw payload", func() {
		s.service.submitStatus = models.StatusNoMatch
		rr := testutil.DoRequest(s.router, withSerial(testutil.NewRequestWithBody(http.MethodPost, path, valid)))

		s.Equal(http.StatusOK, rr.Code)
		s.Require().NotNil(s.service.submitted)
		s.Equal(cid, s.service.submitted.CorrelationID)
		s.Equal(cid, s.service.submitted.RequestID)
		s.Equal(id.JurisdictionCode("E09"), s.service.submitted.JurisdictionCode)
		s.Equal(valid, string(s.service.payload))
	})

	statusCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"request id mismatch", dErrors.New(dErrors.CodeBadRequest, "requestId does not match"), http.StatusBadRequest, "bad_request"},
		{"jurisdiction mismatch", dErrors.New(dErrors.CodeForbidden, "not administered"), http.StatusForbidden, "forbidden"},
		{"unknown check", dErrors.New(dErrors.CodeNotFound, "not found"), http.StatusNotFound, "not_found"},
		{"not pending", dErrors.New(dErrors.CodeConflict, "already processed"), http.StatusConflict, "conflict"},
		{"upstream failure", dErrors.New(dErrors.CodeUpstream, "directory down"), http.StatusInternalServerError, "upstream_error"},
	}
	for _, tc := range statusCases {
		s.Run(tc.name, func() {
			s.service.submitErr = tc.err
			rr := testutil.DoRequest(s.router, withSerial(testutil.NewRequestWithBody(http.MethodPost, path, valid)))
			testutil.AssertStatusAndError(s.T(), rr, tc.status, tc.code)
		})
	}
	s.service.submitErr = nil

	s.Run("candidates reach the service", func() {
		s.service.submitStatus = models.StatusExactMatch
		count := 1
		created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, SubmitResultRequest{
			RequestID:        cid.String(),
			JurisdictionCode: "E09",
			CreatedAt:        &created,
			MatchCount:       &count,
			Matches: []models.Match{{
				PersonalDetail: models.PersonalDetail{FirstName: "Ada", Surname: "Lovelace"},
				EMSElectorID:   "ems-1",
				FranchiseCode:  "G",
			}},
		})
		rr := testutil.DoRequest(s.router, withSerial(req))

		s.Equal(http.StatusOK, rr.Code)
		s.Require().Len(s.service.submitted.Matches, 1)
		s.Equal("ems-1", s.service.submitted.Matches[0].EMSElectorID)
	})

	s.Run("malformed body", func() {
		rr := testutil.DoRequest(s.router, withSerial(testutil.NewRequestWithBody(http.MethodPost, path, `{"requestId":`)))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("missing match count", func() {
		body := `{"requestId":"` + cid.String() + `","jurisdictionCode":"E09","createdAt":"2026-04-01T08:00:00Z"}`
		rr := testutil.DoRequest(s.router, withSerial(testutil.NewRequestWithBody(http.MethodPost, path, body)))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("path id must be a uuid", func() {
		rr := testutil.DoRequest(s.router, withSerial(testutil.NewRequestWithBody(http.MethodPost, "/registerchecks/nope", valid)))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

// =============================================================================
// GET /admin/pending-checks/{authorityId}
// =============================================================================

func (s *HandlerSuite) TestAdminPending() {
	created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	s.service.admin = []models.PendingSummary{{
		SourceReference:  "app-1",
		SourceType:       models.SourceTypePostalVote,
		JurisdictionCode: "E09",
		CreatedAt:        created,
	}}

	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(http.MethodGet, "/admin/pending-checks/auth-1", ""))
	s.Equal(http.StatusOK, rr.Code, "admin route needs no credential")
	s.Equal(id.AuthorityID("auth-1"), s.service.adminFor)

	body := testutil.UnmarshalResponse[[]models.PendingSummary](s.T(), rr)
	s.Require().Len(*body, 1)
	s.Equal("app-1", (*body)[0].SourceReference)
	s.True(created.Equal((*body)[0].CreatedAt))
}
