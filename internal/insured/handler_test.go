package insured

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/redmonkez12/insured-api/internal/httputil"
	"github.com/redmonkez12/insured-api/internal/metrics"
)

type HandlerSuite struct {
	suite.Suite
	repo    *MemoryRepository
	service *Service
	metrics *metrics.Metrics
	handler *Handler
}

func (s *HandlerSuite) SetupTest() {
	s.repo = NewMemoryRepository()
	s.service = newTestService(s.repo)
	s.metrics = metrics.New()
	s.handler = NewHandler(s.service, s.metrics)
}

func (s *HandlerSuite) do(h http.HandlerFunc, method, body string, principal *Insured) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/insureds/", bytes.NewBufferString(body))
	if principal != nil {
		req = req.WithContext(WithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func (s *HandlerSuite) register() *Insured {
	created, err := s.service.Register(context.Background(), validInput())
	s.Require().NoError(err)
	return created
}

func (s *HandlerSuite) decodeError(rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	var body httputil.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *HandlerSuite) TestRegisterCreated() {
	rec := s.do(s.handler.Register, http.MethodPost,
		`{"name":"Maria Silva","email":"Maria@Example.com","cpf":"529.982.247-25","password":"secret123"}`, nil)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var raw map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &raw))
	s.Equal("maria@example.com", raw["email"])
	s.Equal("52998224725", raw["cpf"])
	s.Nil(raw["last_login_at"])
	s.NotContains(raw, "password")
	s.NotContains(raw, "password_hash")

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Registrations.WithLabelValues("success")))
}

func (s *HandlerSuite) TestRegisterValidationFailure() {
	rec := s.do(s.handler.Register, http.MethodPost,
		`{"name":"Maria","email":"maria@example.com","cpf":"529.982.247-24","password":"secret123"}`, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"error":"validation failed","code":"VALIDATION_FAILED","fields":{"cpf":"Invalid CPF."}}`, rec.Body.String())

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Registrations.WithLabelValues("invalid")))
}

func (s *HandlerSuite) TestRegisterRejectsUnknownFields() {
	rec := s.do(s.handler.Register, http.MethodPost,
		`{"name":"Maria","email":"maria@example.com","cpf":"52998224725","password":"secret123","id":"x"}`, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(httputil.CodeInvalidRequestBody, s.decodeError(rec).Code)
}

func (s *HandlerSuite) TestMe() {
	created := s.register()

	rec := s.do(s.handler.Me, http.MethodGet, "", created)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp Response
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(created.ID, resp.ID)

	rec = s.do(s.handler.Me, http.MethodGet, "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestEditName() {
	created := s.register()

	rec := s.do(s.handler.Edit, http.MethodPatch, `{"name":"Maria Souza"}`, created)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp Response
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Maria Souza", resp.Name)
	s.False(resp.UpdatedAt.Before(created.UpdatedAt))

	_, err := s.service.VerifyCredentials(context.Background(), "maria@example.com", "secret123")
	s.NoError(err)
}

func (s *HandlerSuite) TestEditPassword() {
	created := s.register()

	rec := s.do(s.handler.Edit, http.MethodPatch,
		`{"password":"brandnew","password_confirmation":"brandnew"}`, created)
	s.Require().Equal(http.StatusOK, rec.Code)

	_, err := s.service.VerifyCredentials(context.Background(), "maria@example.com", "brandnew")
	s.NoError(err)
	_, err = s.service.VerifyCredentials(context.Background(), "maria@example.com", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *HandlerSuite) TestEditPasswordProtocolErrors() {
	created := s.register()

	tests := []struct {
		body    string
		code    string
		message string
	}{
		{
			body:    `{"password":"brandnew"}`,
			code:    httputil.CodeBothPasswordFieldsRequired,
			message: ErrBothPasswordFieldsRequired.Error(),
		},
		{
			body:    `{"name":"Ana","password_confirmation":"brandnew"}`,
			code:    httputil.CodeBothPasswordFieldsRequired,
			message: ErrBothPasswordFieldsRequired.Error(),
		},
		{
			body:    `{"password":"brandnew","password_confirmation":"different"}`,
			code:    httputil.CodePasswordConfirmationMismatch,
			message: ErrPasswordConfirmationMismatch.Error(),
		},
	}

	for _, tt := range tests {
		rec := s.do(s.handler.Edit, http.MethodPatch, tt.body, created)
		s.Equal(http.StatusBadRequest, rec.Code, tt.body)

		body := s.decodeError(rec)
		s.Equal(tt.code, body.Code)
		s.Equal(tt.message, body.Fields[NonFieldErrors])
	}

	// Nothing was changed by the rejected edits
	stored, err := s.repo.GetByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Equal(created.Name, stored.Name)
	s.Equal(created.PasswordHash, stored.PasswordHash)
	s.Equal(created.UpdatedAt, stored.UpdatedAt)

	s.Equal(float64(3), testutil.ToFloat64(s.metrics.ProfileEdits.WithLabelValues("invalid")))
}

func (s *HandlerSuite) TestEditShortPassword() {
	created := s.register()

	rec := s.do(s.handler.Edit, http.MethodPatch, `{"password":"abc","password_confirmation":"abc"}`, created)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(httputil.CodeValidationFailed, s.decodeError(rec).Code)
	s.Contains(s.decodeError(rec).Fields, "password")
}

func (s *HandlerSuite) TestEditOversizedBody() {
	created := s.register()

	body := `{"name":"` + strings.Repeat("a", httputil.MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req = req.WithContext(WithPrincipal(req.Context(), created))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, httputil.MaxBodyBytes)

	s.handler.Edit(rec, req)

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Equal(httputil.CodeRequestTooLarge, s.decodeError(rec).Code)
}

func (s *HandlerSuite) TestEditVanishedPrincipal() {
	ghost := &Insured{ID: uuid.New(), Name: "Ghost"}

	rec := s.do(s.handler.Edit, http.MethodPatch, `{"name":"Boo"}`, ghost)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(httputil.CodeNotAuthenticated, s.decodeError(rec).Code)
}

func (s *HandlerSuite) TestEditCannotChangeImmutableFields() {
	created := s.register()

	rec := s.do(s.handler.Edit, http.MethodPatch, `{"email":"new@example.com"}`, created)
	s.Equal(http.StatusBadRequest, rec.Code)

	stored, err := s.repo.GetByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Equal("maria@example.com", stored.Email)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}
