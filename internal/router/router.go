package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"unihub/internal/auth"
	"unihub/internal/config"
	"unihub/internal/handler"
	"unihub/internal/middleware"
)

// Handlers groups every HTTP handler. Seed is nil in production.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Club       *handler.ClubHandler
	Membership *handler.MembershipHandler
	Post       *handler.PostHandler
	Event      *handler.EventHandler
	Feed       *handler.FeedHandler
	Upload     *handler.UploadHandler
	Seed       *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	jwtService *auth.JWTService,
	tokens auth.TokenStoreInterface,
	h Handlers,
) {
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if !cfg.IsProduction() || cfg.SwaggerHost != "" {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/verify-email", h.Auth.VerifyEmail)
	if h.Seed != nil {
		api.POST("/seed/demo", h.Seed.SeedDemo)
	}

	// Secured routes (require JWT authentication)
	secured := api.Group("", middleware.JWT(jwtService), middleware.RejectRevoked(tokens))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.POST("/auth/resend-verification", h.Auth.ResendVerification)
	secured.GET("/auth/status", h.Auth.Status)

	// User routes
	secured.GET("/users", h.User.ListUsers)
	secured.GET("/users/search", h.User.SearchUsers)
	secured.GET("/users/me", h.User.Me)
	secured.PUT("/users/me", h.User.UpdateMe)
	secured.DELETE("/users/me", h.User.DeleteMe)
	secured.GET("/users/:id", h.User.GetUser)

	// Club routes
	secured.GET("/clubs", h.Club.ListClubs)
	secured.POST("/clubs", h.Club.CreateClub)
	secured.GET("/clubs/search", h.Club.SearchClubs)
	secured.GET("/clubs/discover", h.Club.Discover)
	secured.GET("/clubs/:id", h.Club.GetClub)
	secured.PUT("/clubs/:id", h.Club.UpdateClub)
	secured.DELETE("/clubs/:id", h.Club.DeleteClub)
	secured.GET("/clubs/:id/logs", h.Club.ListLogs)
	secured.DELETE("/clubs/:id/logs/:logId", h.Club.DeleteLog)

	// Membership routes
	secured.POST("/clubs/:id/join", h.Membership.Join)
	secured.DELETE("/clubs/:id/join", h.Membership.Withdraw)
	secured.GET("/clubs/:id/pending-members", h.Membership.ListPending)
	secured.POST("/clubs/:id/requests/:userId/approve", h.Membership.Approve)
	secured.POST("/clubs/:id/requests/:userId/reject", h.Membership.Reject)
	secured.DELETE("/clubs/:id/members/:userId", h.Membership.Remove)
	secured.POST("/clubs/:id/members/:userId/promote", h.Membership.Promote)
	secured.POST("/clubs/:id/members/:userId/demote", h.Membership.Demote)
	secured.POST("/clubs/:id/members/:userId/transfer-ownership", h.Membership.TransferOwnership)
	secured.DELETE("/clubs/:id/leave", h.Membership.Leave)
	secured.PUT("/clubs/:id/notifications", h.Membership.UpdateNotifications)

	// Post routes
	secured.GET("/posts", h.Post.ListPosts)
	secured.POST("/clubs/:id/posts", h.Post.CreatePost)
	secured.GET("/posts/:id", h.Post.GetPost)
	secured.PUT("/posts/:id", h.Post.UpdatePost)
	secured.DELETE("/posts/:id", h.Post.DeletePost)
	secured.POST("/posts/:id/toggle-like", h.Post.ToggleLike)

	// Event routes
	secured.GET("/events", h.Event.ListEvents)
	secured.GET("/events/upcoming", h.Event.ListUpcoming)
	secured.GET("/events/past", h.Event.ListPast)
	secured.POST("/clubs/:id/events", h.Event.CreateEvent)
	secured.GET("/events/:id", h.Event.GetEvent)
	secured.PUT("/events/:id", h.Event.UpdateEvent)
	secured.DELETE("/events/:id", h.Event.DeleteEvent)
	secured.POST("/events/:id/attend", h.Event.Attend)
	secured.POST("/events/:id/submit-form", h.Event.SubmitForm)
	secured.DELETE("/events/:id/leave", h.Event.Leave)
	secured.DELETE("/events/:id/attendees/:userId", h.Event.RemoveAttendee)
	secured.GET("/events/:id/submissions", h.Event.Submissions)

	// Feed routes
	secured.GET("/feed/posts", h.Feed.Posts)
	secured.GET("/feed/events", h.Feed.Events)

	// Upload routes
	secured.POST("/uploads", h.Upload.Upload, echomw.BodyLimit(handler.MaxUploadSize))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by every handler.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
