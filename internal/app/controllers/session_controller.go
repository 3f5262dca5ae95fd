package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models/dto"
	"github.com/SeattleChris/hepcat-sub000/internal/app/services"
	"github.com/SeattleChris/hepcat-sub000/internal/middleware"
)

// SessionController handles session lifecycle operations
type SessionController struct {
	sessionService *services.SessionService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService *services.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// CreateSession handles session creation
// @Summary Create a new session
// @Description Creates a session; absent fields default from the session chain and overlaps are resolved automatically
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Session information"
// @Success 201 {object} dto.APIResponse{data=dto.SessionResponse} "Session created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Name already in use or unresolvable overlap"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	req := ctx.MustGet(middleware.ValidatedBodyKey).(*dto.CreateSessionRequest)

	patch, ok := sessionPatchFromDates(ctx, req.KeyDayDate, req.PublishDate, req.ExpireDate)
	if !ok {
		return
	}
	patch.Name = &req.Name
	patch.MaxDayShift = req.MaxDayShift
	patch.NumWeeks = req.NumWeeks
	patch.SkipWeeks = req.SkipWeeks
	patch.FlipLastDay = req.FlipLastDay
	patch.BreakWeeks = req.BreakWeeks

	session, err := c.sessionService.CreateSession(ctx, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewSessionResponse(session),
		Timestamp: time.Now(),
	})
}

// UpdateSession handles partial session updates
// @Summary Update a session
// @Description Applies a partial update; date-bearing changes re-run overlap resolution and publish-date propagation
// @Tags sessions
// @Accept json
// @Produce json
// @Param name path string true "Session name"
// @Param request body dto.UpdateSessionRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Unresolvable overlap or concurrent update"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{name} [put]
func (c *SessionController) UpdateSession(ctx *gin.Context) {
	req := ctx.MustGet(middleware.ValidatedBodyKey).(*dto.UpdateSessionRequest)

	patch, ok := sessionPatchFromDates(ctx, req.KeyDayDate, req.PublishDate, req.ExpireDate)
	if !ok {
		return
	}
	patch.Name = req.Name
	patch.MaxDayShift = req.MaxDayShift
	patch.NumWeeks = req.NumWeeks
	patch.SkipWeeks = req.SkipWeeks
	patch.FlipLastDay = req.FlipLastDay
	patch.BreakWeeks = req.BreakWeeks

	session, err := c.sessionService.UpdateSession(ctx, ctx.Param("name"), patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSessionResponse(session),
		Timestamp: time.Now(),
	})
}

// GetSession retrieves a session by name
// @Summary Get session by name
// @Description Retrieves a session including its derived start, end, and expire dates
// @Tags sessions
// @Produce json
// @Param name path string true "Session name"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{name} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	session, err := c.sessionService.GetSessionByName(ctx, ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSessionResponse(session),
		Timestamp: time.Now(),
	})
}

// ListSessions retrieves all sessions
// @Summary List sessions
// @Description Retrieves all sessions in chain order
// @Tags sessions
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.SessionResponse} "Sessions retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	sessions, err := c.sessionService.ListSessions(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSessionListResponse(sessions),
		Timestamp: time.Now(),
	})
}

// sessionPatchFromDates parses the wire-format date fields, writing the 400
// response itself when one is malformed.
func sessionPatchFromDates(ctx *gin.Context, keyDay, publish, expire *string) (services.SessionPatch, bool) {
	var patch services.SessionPatch
	fields := []struct {
		name  string
		value *string
		dest  **time.Time
	}{
		{"keyDayDate", keyDay, &patch.KeyDayDate},
		{"publishDate", publish, &patch.PublishDate},
		{"expireDate", expire, &patch.ExpireDate},
	}
	for _, f := range fields {
		parsed, err := dto.ParseDatePtr(f.value)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid date").WithField(f.name)
			errorDetail = errorDetail.WithDetails(err.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return patch, false
		}
		*f.dest = parsed
	}
	return patch, true
}
