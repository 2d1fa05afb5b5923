package kyc

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/identity"
)

// Handler exposes KYC endpoints for users and admins.
type Handler struct {
	service *Service
}

// NewHandler constructs a KYC handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submissionResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	DocType    string `json:"doc_type"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
	CreatedAt  string `json:"created_at"`
	ReviewedAt string `json:"reviewed_at,omitempty"`
}

func toSubmissionResponse(s Submission) submissionResponse {
	out := submissionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		DocType:   s.DocType,
		Status:    s.Status,
		Note:      s.Note,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
	if !s.ReviewedAt.IsZero() {
		out.ReviewedAt = s.ReviewedAt.Format(time.RFC3339)
	}
	return out
}

type submitRequest struct {
	DocType   string `json:"doc_type"`
	DocNumber string `json:"doc_number"`
}

// Submit files a verification request for the caller.
func (h *Handler) Submit(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	submission, err := h.service.Submit(c.UserContext(), uid, req.DocType, req.DocNumber)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDocument):
			return fiber.NewError(http.StatusBadRequest, "invalid document")
		case errors.Is(err, ErrAlreadyPending), errors.Is(err, ErrAlreadyVerified):
			return fiber.NewError(http.StatusConflict, err.Error())
		case errors.Is(err, identity.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "user not found")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(toSubmissionResponse(submission))
}

// Status returns the caller's latest submission.
func (h *Handler) Status(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	submission, err := h.service.StatusFor(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(fiber.Map{"status": "unverified"})
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(toSubmissionResponse(submission))
}

// Pending lists open submissions for review.
func (h *Handler) Pending(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	submissions, err := h.service.Pending(c.UserContext(), limit)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	items := make([]submissionResponse, 0, len(submissions))
	for _, s := range submissions {
		items = append(items, toSubmissionResponse(s))
	}
	return c.JSON(fiber.Map{"submissions": items})
}

type decisionRequest struct {
	Note string `json:"note"`
}

// Approve verifies the submission's user.
func (h *Handler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.service.Approve)
}

// Reject declines the submission.
func (h *Handler) Reject(c *fiber.Ctx) error {
	return h.decide(c, h.service.Reject)
}

func (h *Handler) decide(c *fiber.Ctx, decision func(ctx context.Context, submissionID, reviewerID, note string) (Submission, error)) error {
	reviewerID, _ := c.Locals("user_id").(string)
	var req decisionRequest
	_ = c.BodyParser(&req)

	submission, err := decision(c.UserContext(), c.Params("id"), reviewerID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "submission not found")
		case errors.Is(err, ErrNotPending):
			return fiber.NewError(http.StatusConflict, "submission is not pending")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(toSubmissionResponse(submission))
}
