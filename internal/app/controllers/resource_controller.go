package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
	"github.com/SeattleChris/hepcat-sub000/internal/app/models/dto"
	"github.com/SeattleChris/hepcat-sub000/internal/app/services"
	"github.com/SeattleChris/hepcat-sub000/internal/middleware"
)

// ResourceController handles resource catalog and availability operations
type ResourceController struct {
	resourceService *services.ResourceService
}

// NewResourceController creates a new ResourceController
func NewResourceController(resourceService *services.ResourceService) *ResourceController {
	return &ResourceController{
		resourceService: resourceService,
	}
}

// CreateResource handles resource creation
// @Summary Create a new resource
// @Tags resources
// @Accept json
// @Produce json
// @Param request body dto.CreateResourceRequest true "Resource information"
// @Success 201 {object} dto.APIResponse{data=dto.ResourceResponse} "Resource created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resources [post]
func (c *ResourceController) CreateResource(ctx *gin.Context) {
	req := ctx.MustGet(middleware.ValidatedBodyKey).(*dto.CreateResourceRequest)

	resource := &models.Resource{
		ContentType: req.ContentType,
		Title:       req.Title,
		Link:        req.Link,
	}
	if req.Avail != nil {
		resource.Avail = *req.Avail
	}
	if req.Expire != nil {
		resource.Expire = *req.Expire
	}
	if err := c.resourceService.CreateResource(ctx, resource); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewResourceResponse(resource),
		Timestamp: time.Now(),
	})
}

// AttachResource links a resource to a class offer or subject
// @Summary Attach a resource
// @Description Links a resource to exactly one class offer or subject
// @Tags resources
// @Accept json
// @Produce json
// @Param request body dto.AttachResourceRequest true "Attachment target"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Resource attached successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Resource or target not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resources/attach [post]
func (c *ResourceController) AttachResource(ctx *gin.Context) {
	req := ctx.MustGet(middleware.ValidatedBodyKey).(*dto.AttachResourceRequest)
	if (req.ClassOfferID == nil) == (req.SubjectID == nil) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Exactly one of classOfferId or subjectId must be set")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var err error
	if req.ClassOfferID != nil {
		err = c.resourceService.AttachToClassOffer(ctx, req.ResourceID, *req.ClassOfferID)
	} else {
		err = c.resourceService.AttachToSubject(ctx, req.ResourceID, *req.SubjectID)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Resource attached"},
		Timestamp: time.Now(),
	})
}

// GetResources lists the resources visible through a class offer
// @Summary List resources for a class offer
// @Description Lists directly attached and subject-inherited resources with computed windows; teacher-or-above callers bypass the live filter
// @Tags resources
// @Produce json
// @Param id path int true "Class offer ID"
// @Param live query bool false "Only currently live resources"
// @Param liveByDate query bool false "Only resources inside their publish/expire window"
// @Param userId query string false "Caller user ID for role resolution"
// @Param asOf query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.APIResponse{data=[]dto.ResourceViewResponse} "Resources retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 404 {object} dto.ErrorResponse "Class offer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /class-offers/{id}/resources [get]
func (c *ResourceController) GetResources(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	query, ok := resourceQueryFromContext(ctx)
	if !ok {
		return
	}

	views, err := c.resourceService.GetResources(ctx, id, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewResourceViewListResponse(views),
		Timestamp: time.Now(),
	})
}

// GetUserResources lists resources across a user's registered class offers
// @Summary List resources for a user
// @Description Aggregates resources across every class offer the user is registered for, deduplicated by resource
// @Tags resources
// @Produce json
// @Param id path string true "User ID"
// @Param live query bool false "Only currently live resources"
// @Param liveByDate query bool false "Only resources inside their publish/expire window"
// @Param asOf query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.APIResponse{data=[]dto.ResourceViewResponse} "Resources retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/resources [get]
func (c *ResourceController) GetUserResources(ctx *gin.Context) {
	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user ID").WithField("id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	query, ok := resourceQueryFromContext(ctx)
	if !ok {
		return
	}

	views, err := c.resourceService.ResourcesForUser(ctx, userID, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewResourceViewListResponse(views),
		Timestamp: time.Now(),
	})
}

// GetMostRecentResource is a declared but unsupported aggregation
// @Summary Most recent resource per class offer
// @Description Intentionally unsupported; always returns 501
// @Tags resources
// @Produce json
// @Param id path int true "Class offer ID"
// @Failure 501 {object} dto.ErrorResponse "Not implemented"
// @Router /class-offers/{id}/resources/most-recent [get]
func (c *ResourceController) GetMostRecentResource(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if _, err := c.resourceService.MostRecentResource(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
}

// resourceQueryFromContext parses the shared listing query parameters,
// writing the 400 response itself on failure.
func resourceQueryFromContext(ctx *gin.Context) (services.ResourceQuery, bool) {
	var query services.ResourceQuery
	query.Live = ctx.Query("live") == "true"
	query.LiveByDate = ctx.Query("liveByDate") == "true"

	if raw := ctx.Query("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user ID").WithField("userId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return query, false
		}
		query.UserID = &userID
	}
	if raw := ctx.Query("asOf"); raw != "" {
		asOf, err := dto.ParseDate(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid date").WithField("asOf")
			errorDetail = errorDetail.WithDetails(err.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return query, false
		}
		query.AsOf = &asOf
	}
	return query, true
}
