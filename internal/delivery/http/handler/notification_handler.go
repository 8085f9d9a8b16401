package handler

import (
	"smart-resume-match/internal/delivery/http/dto"
	"smart-resume-match/internal/delivery/http/middleware"
	"smart-resume-match/internal/delivery/http/validation"
	"smart-resume-match/internal/pkg/response"
	"smart-resume-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/notifications")
	grp.Post("/email", h.SendEmail)
}

func (h *NotificationHandler) SendEmail(c fiber.Ctx) error {
	var req dto.SendEmailRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validation.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", validation.Fields(err), err)
	}

	if err := h.uc.SendEmail(c.Context(), usecase.EmailInput{To: req.To, Subject: req.Subject, HTML: req.HTML}); err != nil {
		return mapCommonUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "email sent", nil)
}
