package v1

import (
	"smart-resume-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Skills        *handler.SkillHandler
	Match         *handler.MatchHandler
	Jobs          *handler.JobsHandler
	Analyses      *handler.AnalysisHandler
	Notifications *handler.NotificationHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Skills != nil {
		h.Skills.RegisterRoutes(r)
	}
	if h.Match != nil {
		h.Match.RegisterRoutes(r)
	}
	RegisterJobs(r, h.Jobs)
	if h.Analyses != nil {
		h.Analyses.RegisterRoutes(r)
	}
	if h.Notifications != nil {
		h.Notifications.RegisterRoutes(r)
	}
}

func RegisterJobs(r fiber.Router, jobsHandler *handler.JobsHandler) {
	if r == nil {
		return
	}
	if jobsHandler == nil {
		return
	}

	jobsHandler.RegisterRoutes(r)
}
