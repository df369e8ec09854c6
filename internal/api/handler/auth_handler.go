package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Hriday2406/NoAI-Backend/internal/core/ports"
)

// AuthHandler handles the public OTP endpoints: registration, email
// verification, login, and login verification.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register sends a verification OTP for a new (or unverified) account.
//
// @Summary      Register and receive a verification OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Name and email"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      500   {object}  envelope
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	email, err := h.authService.Register(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "OTP sent to your email for verification",
		Data: otpSentData{
			Email:   email,
			Message: "Please check your email for OTP",
		},
	})
}

// VerifyOTP completes registration with the emailed code.
//
// @Summary      Verify the registration OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Email and OTP"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.VerifyOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Registration completed successfully",
		Data:    authData{User: user, Token: token},
	})
}

// Login sends a login OTP to a verified, active account.
//
// @Summary      Request a login OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Email"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	email, err := h.authService.Login(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Login OTP sent to your email",
		Data: otpSentData{
			Email:   email,
			Message: "Please check your email for login OTP",
		},
	})
}

// VerifyLoginOTP completes login with the emailed code.
//
// @Summary      Verify the login OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Email and OTP"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /verify-login-otp [post]
func (h *AuthHandler) VerifyLoginOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.VerifyLoginOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Login successful",
		Data:    authData{User: user, Token: token},
	})
}

// bindAndValidate decodes the JSON body and runs struct validation, mapping
// both failure kinds onto 400 with the validator's message.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
