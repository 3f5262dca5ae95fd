package dto

import (
	"time"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models"
)

// CreateResourceRequest represents a request to create a resource. Avail is
// the publication week (0 on signup, 1..N after week N, 200 after
// completion); Expire is weeks visible once published, 0 for never.
type CreateResourceRequest struct {
	ContentType string `json:"contentType" binding:"required,min=1,max=50" example:"video"`
	Title       string `json:"title" binding:"required,min=1,max=200" example:"Swingout breakdown"`
	Link        string `json:"link,omitempty" binding:"omitempty,url" example:"https://example.com/v/123"`
	Avail       *int   `json:"avail,omitempty" binding:"omitempty,min=0,max=200" example:"1"`
	Expire      *int   `json:"expire,omitempty" binding:"omitempty,min=0,max=52" example:"2"`
}

// AttachResourceRequest links a resource to a class offer or a subject;
// exactly one target must be set.
type AttachResourceRequest struct {
	ResourceID   int64  `json:"resourceId" binding:"required" example:"1"`
	ClassOfferID *int64 `json:"classOfferId,omitempty" example:"1"`
	SubjectID    *int64 `json:"subjectId,omitempty"`
}

// ResourceResponse represents a stored resource without window computation
type ResourceResponse struct {
	ID          int64  `json:"id" example:"1"`
	ContentType string `json:"contentType" example:"video"`
	Title       string `json:"title" example:"Swingout breakdown"`
	Link        string `json:"link,omitempty"`
	Avail       int    `json:"avail" example:"1"`
	Expire      int    `json:"expire" example:"2"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ResourceViewResponse represents a resource with its window computed
// against one reference class offer.
type ResourceViewResponse struct {
	ID          int64   `json:"id" example:"1"`
	ContentType string  `json:"contentType" example:"video"`
	Title       string  `json:"title" example:"Swingout breakdown"`
	Link        string  `json:"link,omitempty"`
	Avail       int     `json:"avail" example:"1"`
	Expire      int     `json:"expire" example:"2"`
	PublishDate string  `json:"publishDate" example:"2026-05-07"`
	ExpireDate  *string `json:"expireDate,omitempty" example:"2026-05-21"`
	Live        bool    `json:"live"`
}

// NewResourceResponse builds the response for one stored resource.
func NewResourceResponse(r *models.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		ContentType: r.ContentType,
		Title:       r.Title,
		Link:        r.Link,
		Avail:       r.Avail,
		Expire:      r.Expire,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// NewResourceViewResponse builds the response for one computed view.
func NewResourceViewResponse(v *models.ResourceView) ResourceViewResponse {
	return ResourceViewResponse{
		ID:          v.ID,
		ContentType: v.ContentType,
		Title:       v.Title,
		Link:        v.Link,
		Avail:       v.Avail,
		Expire:      v.Expire,
		PublishDate: FormatDate(v.PublishDate),
		ExpireDate:  FormatDatePtr(v.ExpireDate),
		Live:        v.Live,
	}
}

// NewResourceViewListResponse builds responses for a list of computed views.
func NewResourceViewListResponse(views []*models.ResourceView) []ResourceViewResponse {
	out := make([]ResourceViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewResourceViewResponse(v))
	}
	return out
}
