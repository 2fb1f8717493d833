// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/verifyd/internal/services/email"
	"github.com/yourusername/verifyd/internal/testutil"
)

func signupForm(emailAddr, password string) url.Values {
	return url.Values{
		"email":    {emailAddr},
		"password": {password},
	}
}

func verifyForm(emailAddr, code string) url.Values {
	form := url.Values{"email": {emailAddr}}
	for i := range 6 {
		form.Set(fmt.Sprintf("code%d", i+1), string(code[i]))
	}
	return form
}

func TestSignup_NewUser(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("a@example.com", "secret-password"))

	require.NoError(t, f.h.Signup(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Check your inbox")
	assert.Contains(t, f.sender.Sent, "a@example.com")
}

func TestSignup_UnverifiedReissues(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	c, _ := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("a@example.com", "secret-password"))
	require.NoError(t, f.h.Signup(c))

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("a@example.com", "secret-password"))
	require.NoError(t, f.h.Signup(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Check your inbox")
}

func TestSignup_AlreadyVerified(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	c, _ := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("a@example.com", "secret-password"))
	require.NoError(t, f.h.Signup(c))
	require.NoError(t, f.repo.MarkVerified(context.Background(), "a@example.com"))

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("a@example.com", "secret-password"))
	require.NoError(t, f.h.Signup(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Already registered")
}

func TestSignup_MissingFields(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("", ""))

	require.NoError(t, f.h.Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignup_InvalidEmail(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("not-an-email", "secret-password"))

	require.NoError(t, f.h.Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "valid email address")
}

func TestSignup_DeliveryFailure(t *testing.T) {
	f := newFixture(t)
	f.sender.Fail = email.ErrDeliveryFailure
	e := testutil.NewTestEcho(t)

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("a@example.com", "secret-password"))

	require.NoError(t, f.h.Signup(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not send code")
}

func TestVerify_Success(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)
	ctx := context.Background()

	c, _ := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("a@example.com", "secret-password"))
	require.NoError(t, f.h.Signup(c))

	code := f.sender.Sent["a@example.com"]
	require.Len(t, code, 6)

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/verify", verifyForm("a@example.com", code))
	require.NoError(t, f.h.Verify(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email verified")

	verified, err := f.repo.IsVerified(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestVerify_NoCodeOnRecord(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/verify", verifyForm("missing@example.com", "123456"))

	require.NoError(t, f.h.Verify(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerify_WrongCode(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	testutil.NewTestUser(t, f.repo, "a@example.com")
	testutil.NewTestCode(t, f.repo, "a@example.com", "123456", 0)

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/verify", verifyForm("a@example.com", "654321"))

	require.NoError(t, f.h.Verify(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or has expired")
}

func TestVerify_ExpiredCode(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	testutil.NewTestUser(t, f.repo, "a@example.com")
	testutil.NewTestCode(t, f.repo, "a@example.com", "123456", 301*time.Second)

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/verify", verifyForm("a@example.com", "123456"))

	require.NoError(t, f.h.Verify(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	// Expired and wrong codes produce the same message.
	assert.Contains(t, rec.Body.String(), "invalid or has expired")
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	c, _ := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("a@example.com", "secret-password"))
	require.NoError(t, f.h.Signup(c))
	require.NoError(t, f.repo.MarkVerified(context.Background(), "a@example.com"))

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/login", signupForm("a@example.com", "secret-password"))
	require.NoError(t, f.h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome back")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "_session", cookies[0].Name)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	c, _ := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("a@example.com", "secret-password"))
	require.NoError(t, f.h.Signup(c))
	require.NoError(t, f.repo.MarkVerified(context.Background(), "a@example.com"))

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/login", signupForm("a@example.com", "wrong-password"))
	require.NoError(t, f.h.Login(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogin_Unverified(t *testing.T) {
	f := newFixture(t)
	e := testutil.NewTestEcho(t)

	c, _ := testutil.NewFormContext(e, http.MethodPost, "/signup", signupForm("a@example.com", "secret-password"))
	require.NoError(t, f.h.Signup(c))

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/login", signupForm("a@example.com", "secret-password"))
	require.NoError(t, f.h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not verified yet")
}
