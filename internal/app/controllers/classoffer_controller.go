package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/app/models/dto"
	"github.com/SeattleChris/hepcat-sub000/internal/app/services"
	"github.com/SeattleChris/hepcat-sub000/internal/middleware"
)

// ClassOfferController handles subject, class offer, and registration operations
type ClassOfferController struct {
	classOfferService *services.ClassOfferService
}

// NewClassOfferController creates a new ClassOfferController
func NewClassOfferController(classOfferService *services.ClassOfferService) *ClassOfferController {
	return &ClassOfferController{
		classOfferService: classOfferService,
	}
}

// CreateSubject handles subject creation
// @Summary Create a new subject
// @Tags subjects
// @Accept json
// @Produce json
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse{data=dto.SubjectResponse} "Subject created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects [post]
func (c *ClassOfferController) CreateSubject(ctx *gin.Context) {
	req := ctx.MustGet(middleware.ValidatedBodyKey).(*dto.CreateSubjectRequest)

	subject := &models.Subject{
		Name:    req.Name,
		Level:   req.Level,
		Version: req.Version,
	}
	if err := c.classOfferService.CreateSubject(ctx, subject); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewSubjectResponse(subject),
		Timestamp: time.Now(),
	})
}

// CreateClassOffer handles class offer creation
// @Summary Schedule a class offer
// @Description Schedules a subject on a weekday within an existing session
// @Tags class-offers
// @Accept json
// @Produce json
// @Param request body dto.CreateClassOfferRequest true "Class offer information"
// @Success 201 {object} dto.APIResponse{data=dto.ClassOfferResponse} "Class offer created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Session or subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /class-offers [post]
func (c *ClassOfferController) CreateClassOffer(ctx *gin.Context) {
	req := ctx.MustGet(middleware.ValidatedBodyKey).(*dto.CreateClassOfferRequest)

	offer := &models.ClassOffer{
		SessionID: req.SessionID,
		SubjectID: req.SubjectID,
		ClassDay:  models.DayOfWeek(*req.ClassDay),
		StartTime: req.StartTime,
	}
	if req.SkipWeeks != nil {
		offer.SkipWeeks = *req.SkipWeeks
	}
	if err := c.classOfferService.CreateClassOffer(ctx, offer); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewClassOfferResponse(offer),
		Timestamp: time.Now(),
	})
}

// GetClassOffer retrieves a class offer by ID
// @Summary Get class offer by ID
// @Tags class-offers
// @Produce json
// @Param id path int true "Class offer ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassOfferResponse} "Class offer retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid class offer ID"
// @Failure 404 {object} dto.ErrorResponse "Class offer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /class-offers/{id} [get]
func (c *ClassOfferController) GetClassOffer(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	offer, err := c.classOfferService.GetClassOffer(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewClassOfferResponse(offer),
		Timestamp: time.Now(),
	})
}

// GetOfferingWindow retrieves the concrete meeting window of a class offer
// @Summary Get class offer window
// @Description Returns the first and last meeting dates derived from the owning session
// @Tags class-offers
// @Produce json
// @Param id path int true "Class offer ID"
// @Success 200 {object} dto.APIResponse{data=dto.OfferingWindowResponse} "Window computed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid class offer ID"
// @Failure 404 {object} dto.ErrorResponse "Class offer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /class-offers/{id}/window [get]
func (c *ClassOfferController) GetOfferingWindow(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	start, end, err := c.classOfferService.Window(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.OfferingWindowResponse{
			ClassOfferID: id,
			StartDate:    dto.FormatDate(start),
			EndDate:      dto.FormatDate(end),
		},
		Timestamp: time.Now(),
	})
}

// ListClassOffers retrieves class offers filtered by session
// @Summary List class offers for a session
// @Tags class-offers
// @Produce json
// @Param sessionId query int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ClassOfferResponse} "Class offers retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid session ID"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /class-offers [get]
func (c *ClassOfferController) ListClassOffers(ctx *gin.Context) {
	sessionID, err := strconv.ParseInt(ctx.Query("sessionId"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session ID").WithField("sessionId")
		errorDetail = errorDetail.WithDetails("sessionId query parameter must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	offers, err := c.classOfferService.ListBySession(ctx, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewClassOfferListResponse(offers),
		Timestamp: time.Now(),
	})
}

// Register enrolls a user in a class offer
// @Summary Register for a class offer
// @Tags class-offers
// @Accept json
// @Produce json
// @Param id path int true "Class offer ID"
// @Param request body dto.RegisterRequest true "User to enroll"
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationResponse} "Registration created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Class offer or user not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /class-offers/{id}/register [post]
func (c *ClassOfferController) Register(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	req := ctx.MustGet(middleware.ValidatedBodyKey).(*dto.RegisterRequest)
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user ID").WithField("userId")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	registration, err := c.classOfferService.Register(ctx, userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewRegistrationResponse(registration),
		Timestamp: time.Now(),
	})
}

// pathID parses a path parameter as an int64 id, writing the 400 response
// itself on failure.
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID").WithField(name)
		errorDetail = errorDetail.WithDetails("ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
