package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"storefront/pkg/identity"
	"storefront/pkg/models"
	"storefront/pkg/otel"
	"storefront/pkg/store"
)

// fail writes the response for err. Errors outside the API contract are
// logged and reported as 500 without details.
func (s *server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, ok := statusFor(err)
	if !ok {
		s.log.Error(r.Context(), op, "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// menuHandler returns the menu.
// @Summary Get menu
// @Produce json
// @Success 200 {object} response
// @Router /menu [get]
func (s *server) menuHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "menuHandler")
	defer span.End()

	var (
		menu models.Menu
		err  error
	)
	s.store.View(func(doc *store.Document) {
		if len(doc.Menu) > 0 {
			err = json.Unmarshal(doc.Menu, &menu)
		}
	})
	if err != nil {
		s.fail(w, r, "decode menu", err)
		return
	}
	writeOK(w, "ok", menu)
}

// bannersHandler returns the homepage banners in order.
// @Summary List banners
// @Produce json
// @Success 200 {object} response
// @Router /banners [get]
func (s *server) bannersHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "bannersHandler")
	defer span.End()

	var list []models.Banner
	s.store.View(func(doc *store.Document) {
		list = append([]models.Banner{}, doc.Banners...)
	})
	writeOK(w, "ok", map[string]any{"list": list})
}

// createOrderHandler creates a new order.
// @Summary Create order
// @Description Stores the posted fields as a new order. The server assigns orderId and timestamp; client-supplied fields of the same name are overwritten.
// @Accept json
// @Produce json
// @Param order body object true "Order fields"
// @Success 200 {object} response
// @Router /orders [post]
func (s *server) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrderHandler")
	defer span.End()

	var fields map[string]any
	if err := decodeJSON(w, r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	o, err := s.orders.Create(ctx, fields)
	if err != nil {
		s.fail(w, r, "create order", err)
		return
	}
	s.log.Info(ctx, "order created", "order_id", o.ID(), "user_id", o.UserID())
	writeOK(w, "order created", map[string]string{
		"orderId":   o.ID(),
		"timestamp": o.Timestamp(),
	})
}

// orderHistoryHandler lists the caller's orders.
// @Summary List the caller's orders
// @Produce json
// @Success 200 {object} response
// @Security ApiKeyAuth
// @Router /orders/history [get]
func (s *server) orderHistoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "orderHistoryHandler")
	defer span.End()

	writeOK(w, "ok", s.orders.History(ctx, userFrom(ctx)))
}

// loginRequest represents login credentials.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginHandler checks credentials and opens a session.
// @Summary Login
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200 {object} response
// @Failure 401 {object} response
// @Failure 403 {object} response
// @Router /login [post]
func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, tok, err := s.identity.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.fail(w, r, "login", err)
		return
	}
	writeOK(w, "login successful", map[string]any{
		"token": tok,
		"user":  user,
	})
}

// registerHandler creates an account and opens a session.
// @Summary Register
// @Accept json
// @Produce json
// @Param account body identity.RegisterInput true "Account"
// @Success 200 {object} response
// @Failure 400 {object} response
// @Router /register [post]
func (s *server) registerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "registerHandler")
	defer span.End()

	var in identity.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, tok, err := s.identity.Register(ctx, in)
	if err != nil {
		s.fail(w, r, "register", err)
		return
	}
	s.log.Info(ctx, "user registered", "user_id", user.ID)
	writeOK(w, "registered", map[string]any{
		"user":  user,
		"token": tok,
	})
}

// changePasswordRequest carries the current and desired password.
type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// changePasswordHandler updates the caller's password.
// @Summary Change password
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body changePasswordRequest true "Passwords"
// @Success 200 {object} response
// @Failure 403 {object} response
// @Failure 404 {object} response
// @Failure 405 {object} response
// @Security ApiKeyAuth
// @Router /users/{id} [patch]
func (s *server) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "changePasswordHandler")
	defer span.End()

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id := mux.Vars(r)["id"]
	if err := s.identity.ChangePassword(ctx, id, userFrom(ctx), req.OldPassword, req.NewPassword); err != nil {
		s.fail(w, r, "change password", err)
		return
	}
	writeOK(w, "password changed", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// forgotPasswordHandler mints a password reset token.
// @Summary Request a password reset token
// @Accept json
// @Produce json
// @Param body body forgotPasswordRequest true "Email"
// @Success 200 {object} response
// @Failure 404 {object} response
// @Router /forgot-password [post]
func (s *server) forgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "forgotPasswordHandler")
	defer span.End()

	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	tok, link, err := s.identity.RequestPasswordReset(ctx, req.Email)
	if errors.Is(err, identity.ErrUnknownEmail) {
		writeJSON(w, http.StatusNotFound, response{Code: 1, Message: "email not found"})
		return
	}
	if err != nil {
		s.fail(w, r, "forgot password", err)
		return
	}
	writeOK(w, "reset link generated", map[string]string{
		"token":     tok,
		"resetLink": link,
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// resetPasswordHandler consumes a reset token.
// @Summary Reset password with a reset token
// @Accept json
// @Produce json
// @Param body body resetPasswordRequest true "Token and new password"
// @Success 200 {object} response
// @Failure 400 {object} response
// @Failure 404 {object} response
// @Router /reset-password [post]
func (s *server) resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "resetPasswordHandler")
	defer span.End()

	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.identity.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		s.fail(w, r, "reset password", err)
		return
	}
	writeOK(w, "password reset", nil)
}

// logoutHandler revokes the session used for this request.
// @Summary Revoke the current session
// @Produce json
// @Success 200 {object} response
// @Security ApiKeyAuth
// @Router /logout [post]
func (s *server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "logoutHandler")
	defer span.End()

	tok, _ := identity.BearerToken(r.Header.Get("Authorization"))
	if err := s.identity.Logout(ctx, tok); err != nil {
		s.fail(w, r, "logout", err)
		return
	}
	writeOK(w, "logged out", nil)
}
