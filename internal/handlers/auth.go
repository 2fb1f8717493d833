// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yourusername/verifyd/internal/services/auth"
	"github.com/yourusername/verifyd/internal/services/email"
	"github.com/yourusername/verifyd/internal/services/verification"
)

// formPage is the data for the login and signup templates.
type formPage struct {
	Email string
	Error string
}

// codePage is the data for the code entry template.
type codePage struct {
	Email string
	Error string
}

// messagePage is the data for the generic outcome template.
type messagePage struct {
	Title   string
	Message string
}

// LoginPage renders the login form.
func (h *Handlers) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", formPage{})
}

// SignupPage renders the signup form.
func (h *Handlers) SignupPage(c echo.Context) error {
	return c.Render(http.StatusOK, "signup.html", formPage{})
}

// VerifyPage renders the code entry form for an email passed as a query
// parameter.
func (h *Handlers) VerifyPage(c echo.Context) error {
	return c.Render(http.StatusOK, "verify.html", codePage{Email: c.QueryParam("email")})
}

// Signup handles a signup form submission.
func (h *Handlers) Signup(c echo.Context) error {
	emailAddr := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	if emailAddr == "" || password == "" {
		return c.Render(http.StatusBadRequest, "signup.html", formPage{
			Email: emailAddr,
			Error: "Email and password are required.",
		})
	}

	outcome, err := h.auth.Signup(c.Request().Context(), emailAddr, password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidEmail):
		return c.Render(http.StatusBadRequest, "signup.html", formPage{
			Email: emailAddr,
			Error: "That does not look like a valid email address.",
		})
	case errors.Is(err, email.ErrDeliveryFailure):
		return c.Render(http.StatusOK, "message.html", messagePage{
			Title:   "Could not send code",
			Message: "We could not send a verification code to your address. Please try again later.",
		})
	default:
		slog.Error("signup failed", "email", emailAddr, "error", err)
		return c.Render(http.StatusInternalServerError, "message.html", messagePage{
			Title:   "Something went wrong",
			Message: "Please try again later.",
		})
	}

	if outcome == auth.SignupAlreadyVerified {
		return c.Render(http.StatusOK, "message.html", messagePage{
			Title:   "Already registered",
			Message: "This email address is already registered and verified. Please log in.",
		})
	}

	// New account or reissued code, either way the user enters the code next.
	return c.Render(http.StatusOK, "verify.html", codePage{Email: emailAddr})
}

// Verify handles a code submission. The six digits arrive as separate form
// fields and are concatenated before checking.
func (h *Handlers) Verify(c echo.Context) error {
	emailAddr := strings.TrimSpace(c.FormValue("email"))

	var code strings.Builder
	for _, field := range []string{"code1", "code2", "code3", "code4", "code5", "code6"} {
		code.WriteString(strings.TrimSpace(c.FormValue(field)))
	}

	err := h.engine.Verify(c.Request().Context(), emailAddr, code.String())
	switch {
	case err == nil:
		return c.Render(http.StatusOK, "message.html", messagePage{
			Title:   "Email verified",
			Message: "Your account is verified. You can log in now.",
		})
	case errors.Is(err, verification.ErrNotFound):
		return c.Render(http.StatusNotFound, "404.html", nil)
	case errors.Is(err, verification.ErrInvalidOrExpired):
		// One message for both wrong and expired codes.
		return c.Render(http.StatusOK, "verify.html", codePage{
			Email: emailAddr,
			Error: "That code is invalid or has expired. Request a new one by signing up again.",
		})
	default:
		slog.Error("verification failed", "email", emailAddr, "error", err)
		return c.Render(http.StatusInternalServerError, "message.html", messagePage{
			Title:   "Something went wrong",
			Message: "Please try again later.",
		})
	}
}

// Login handles a login form submission and sets a session cookie on
// success.
func (h *Handlers) Login(c echo.Context) error {
	emailAddr := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	err := h.auth.Login(c.Request().Context(), emailAddr, password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrNotVerified):
		return c.Render(http.StatusOK, "verify.html", codePage{
			Email: emailAddr,
			Error: "Your account is not verified yet. Enter the code we sent you.",
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Render(http.StatusUnauthorized, "login.html", formPage{
			Email: emailAddr,
			Error: "Invalid email or password.",
		})
	default:
		slog.Error("login failed", "email", emailAddr, "error", err)
		return c.Render(http.StatusInternalServerError, "message.html", messagePage{
			Title:   "Something went wrong",
			Message: "Please try again later.",
		})
	}

	cookie, err := h.sessions.Create(emailAddr)
	if err != nil {
		slog.Error("session cookie creation failed", "email", emailAddr, "error", err)
		return c.Render(http.StatusInternalServerError, "message.html", messagePage{
			Title:   "Something went wrong",
			Message: "Please try again later.",
		})
	}
	c.SetCookie(cookie)

	return c.Render(http.StatusOK, "message.html", messagePage{
		Title:   "Welcome back",
		Message: "You are logged in as " + emailAddr + ".",
	})
}
