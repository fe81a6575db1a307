package forms

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dsfolio/dsfolio/internal/storage/postgres"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	inserted []*postgres.Submission
	fail     bool
}

func (f *fakeStore) Insert(_ context.Context, sub *postgres.Submission, _ any) error {
	if f.fail {
		return fmt.Errorf("db down")
	}
	f.inserted = append(f.inserted, sub)
	return nil
}

type fakeMailer struct {
	sent int
	fail bool
}

func (f *fakeMailer) SendContact(_, _, _ string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.sent++
	return nil
}

func contactRouter(store Store, mailer Mailer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api/v1"), NewHandler(store, mailer, 60))
	return r
}

func postForm(r *gin.Engine, values url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(rr, req)
	return rr
}

func validForm() url.Values {
	return url.Values{
		"name":        {"Dana Chen"},
		"email":       {"dana@example.com"},
		"message":     {"I enjoyed the churn modeling post and have a project to discuss."},
		"rendered_at": {fmt.Sprint(time.Now().Add(-time.Minute).Unix())},
	}
}

func TestContactAccepted(t *testing.T) {
	store := &fakeStore{}
	mailer := &fakeMailer{}
	r := contactRouter(store, mailer)

	rr := postForm(r, validForm())

	assert.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "dana@example.com", store.inserted[0].Email)
	assert.Equal(t, 1, mailer.sent)
}

func TestContactHoneypotRejected(t *testing.T) {
	store := &fakeStore{}
	mailer := &fakeMailer{}
	r := contactRouter(store, mailer)

	form := validForm()
	form.Set("website", "http://spam.example")
	rr := postForm(r, form)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Empty(t, store.inserted)
	assert.Zero(t, mailer.sent)
	// Rejection body stays generic.
	assert.NotContains(t, rr.Body.String(), "honeypot")
}

func TestContactTooFastRejected(t *testing.T) {
	r := contactRouter(&fakeStore{}, &fakeMailer{})

	form := validForm()
	form.Set("rendered_at", fmt.Sprint(time.Now().Unix()))
	rr := postForm(r, form)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestContactMissingFields(t *testing.T) {
	r := contactRouter(&fakeStore{}, &fakeMailer{})

	form := validForm()
	form.Del("message")
	rr := postForm(r, form)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "required")
}

func TestContactInvalidEmail(t *testing.T) {
	r := contactRouter(&fakeStore{}, &fakeMailer{})

	form := validForm()
	form.Set("email", "not-an-address")
	rr := postForm(r, form)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid email")
}

func TestContactStoreFailure(t *testing.T) {
	mailer := &fakeMailer{}
	r := contactRouter(&fakeStore{fail: true}, mailer)

	rr := postForm(r, validForm())

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Zero(t, mailer.sent)
}

func TestContactMailFailureStillAccepted(t *testing.T) {
	store := &fakeStore{}
	r := contactRouter(store, &fakeMailer{fail: true})

	rr := postForm(r, validForm())

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, store.inserted, 1)
}

func TestContactWorksWithoutStore(t *testing.T) {
	mailer := &fakeMailer{}
	r := contactRouter(nil, mailer)

	rr := postForm(r, validForm())

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 1, mailer.sent)
}

func TestContactJSONBody(t *testing.T) {
	store := &fakeStore{}
	r := contactRouter(store, &fakeMailer{})

	body := fmt.Sprintf(`{"name":"Dana","email":"dana@example.com","message":"A normal length message about your projects page.","rendered_at":%d}`,
		time.Now().Add(-time.Minute).Unix())

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, store.inserted, 1)
}
