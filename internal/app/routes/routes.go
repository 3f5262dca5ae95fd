package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SeattleChris/hepcat-sub000/internal/app/controllers"
	"github.com/SeattleChris/hepcat-sub000/internal/app/models/dto"
	"github.com/SeattleChris/hepcat-sub000/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	sessionController *controllers.SessionController,
	classOfferController *controllers.ClassOfferController,
	resourceController *controllers.ResourceController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Session routes
	sessions := v1.Group("/sessions")
	{
		sessions.GET("", sessionController.ListSessions)
		sessions.POST("", middleware.ValidateRequest(&dto.CreateSessionRequest{}), sessionController.CreateSession)
		sessions.GET("/:name", sessionController.GetSession)
		sessions.PUT("/:name", middleware.ValidateRequest(&dto.UpdateSessionRequest{}), sessionController.UpdateSession)
	}

	// Subject routes
	subjects := v1.Group("/subjects")
	{
		subjects.POST("", middleware.ValidateRequest(&dto.CreateSubjectRequest{}), classOfferController.CreateSubject)
	}

	// Class offer routes
	classOffers := v1.Group("/class-offers")
	{
		classOffers.GET("", classOfferController.ListClassOffers)
		classOffers.POST("", middleware.ValidateRequest(&dto.CreateClassOfferRequest{}), classOfferController.CreateClassOffer)
		classOffers.GET("/:id", classOfferController.GetClassOffer)
		classOffers.GET("/:id/window", classOfferController.GetOfferingWindow)
		classOffers.POST("/:id/register", middleware.ValidateRequest(&dto.RegisterRequest{}), classOfferController.Register)
		classOffers.GET("/:id/resources", resourceController.GetResources)
		classOffers.GET("/:id/resources/most-recent", resourceController.GetMostRecentResource)
	}

	// Resource routes
	resources := v1.Group("/resources")
	{
		resources.POST("", middleware.ValidateRequest(&dto.CreateResourceRequest{}), resourceController.CreateResource)
		resources.POST("/attach", middleware.ValidateRequest(&dto.AttachResourceRequest{}), resourceController.AttachResource)
	}

	// User-centric aggregation
	users := v1.Group("/users")
	{
		users.GET("/:id/resources", resourceController.GetUserResources)
	}
}
