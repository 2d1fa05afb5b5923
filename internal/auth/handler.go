package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/identity"
	"github.com/naya-pay/naya_pay/internal/notification"
	"github.com/naya-pay/naya_pay/internal/wallet"
)

// Handler exposes authentication endpoints.
type Handler struct {
	ids      *identity.Service
	svc      *Service
	otp      *OTPService
	wallets  *wallet.Service
	notifier notification.Notifier
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(ids *identity.Service, svc *Service, otp *OTPService, wallets *wallet.Service, notifier notification.Notifier) *Handler {
	return &Handler{ids: ids, svc: svc, otp: otp, wallets: wallets, notifier: notifier}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register onboards a user, provisions a wallet and issues a signup OTP.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Register(c.UserContext(), identity.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	var walletID string
	if h.wallets != nil {
		if w, err := h.wallets.Create(c.UserContext(), wallet.CreateInput{OwnerID: user.ID}); err == nil {
			walletID = w.ID
		}
	}

	if code, err := h.otp.IssueOTP(c.UserContext(), user.Email); err == nil && h.notifier != nil {
		// Delivery is simulated: the code goes to the notifier sink.
		_ = h.notifier.Send(c.UserContext(), notification.Message{
			Kind:        notification.KindOTP,
			Destination: user.Email,
			Body:        "Your NayaPay verification code is " + code,
		})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user_id":   user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"phone":     user.Phone,
		"wallet_id": walletID,
		"message":   "Registration successful",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	WalletID     string `json:"wallet_id,omitempty"`
}

// Login validates credentials and returns a token pair.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Authenticate(c.UserContext(), identity.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	pair, err := h.svc.Login(user)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	var wid string
	if h.wallets != nil {
		if w, err := h.wallets.GetByOwner(c.UserContext(), user.ID); err == nil {
			wid = w.ID
		}
	}
	return c.Status(http.StatusOK).JSON(loginResponse{
		UserID:       user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		WalletID:     wid,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh issues a new access token using a valid refresh token.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	token, exp, err := h.svc.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid refresh token")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"access_token": token, "expires_in": exp})
}

// Logout invalidates existing tokens by bumping the token version.
func (h *Handler) Logout(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	if err := h.svc.Logout(c.UserContext(), uid); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "logged_out"})
}

// Profile returns the authenticated user's account.
func (h *Handler) Profile(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := h.ids.Get(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "user not found")
	}
	return c.JSON(fiber.Map{
		"user_id":    user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"phone":      user.Phone,
		"role":       user.Role,
		"kyc_status": user.KYCStatus,
		"created_at": user.CreatedAt,
		"last_login": user.LastLogin,
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyOTP checks a signup verification code.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.otp.VerifyOTP(c.UserContext(), req.Email, req.Code); err != nil {
		if errors.Is(err, ErrCodeMismatch) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"status": "verified"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset token. The response is identical whether or
// not the account exists.
func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if user, err := h.ids.GetByEmail(c.UserContext(), req.Email); err == nil {
		if token, err := h.otp.IssueResetToken(c.UserContext(), user.ID); err == nil && h.notifier != nil {
			_ = h.notifier.Send(c.UserContext(), notification.Message{
				Kind:        notification.KindPasswordReset,
				Destination: user.Email,
				Body:        "Your NayaPay password reset token is " + token,
			})
		}
	}
	return c.JSON(fiber.Map{"status": "ok", "message": "If the account exists, reset instructions were sent"})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes a reset token and sets a new password.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := h.otp.ConsumeResetToken(c.UserContext(), req.Token)
	if err != nil {
		if errors.Is(err, ErrCodeMismatch) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if err := h.ids.SetPassword(c.UserContext(), userID, req.Password); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"status": "password_reset"})
}
