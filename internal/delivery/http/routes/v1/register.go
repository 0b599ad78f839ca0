package v1

import (
	"crew-match/internal/delivery/http/handler"
	"crew-match/internal/delivery/http/middleware"
	"crew-match/internal/domain/account"
	"crew-match/internal/pkg/jwt"
	"crew-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Deps carries everything the v1 routes need. Usecases are built once
// in the app container and shared with background workers.
type Deps struct {
	JWT     jwt.Service
	Auth    usecase.AuthUsecase
	Profile usecase.ProfileUsecase
	Match   usecase.MatchUsecase
	Apply   usecase.ApplyUsecase
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(d.JWT)

	authHandler := handler.NewAuthHandler(d.Auth)
	profileHandler := handler.NewProfileHandler(d.Profile)
	matchHandler := handler.NewMatchHandler(d.Match)
	applyHandler := handler.NewApplyHandler(d.Apply)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	profileGroup := protected.Group("/profile")
	profileHandler.RegisterRoutes(profileGroup)

	applyHandler.RegisterRoutes(protected)
	matchHandler.RegisterRoutes(protected)

	// Full match listings expose scored candidate data; recruiters only.
	recruiterGroup := protected.Group("", authMw.RequireRole(account.RoleRecruiter))
	matchHandler.RegisterRecruiterRoutes(recruiterGroup)
}
