package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agro-order-service/internal/dto"
	"agro-order-service/internal/middleware"
	"agro-order-service/internal/model"
	"agro-order-service/internal/service"
)

type ListingController struct {
	Service *service.ListingService
}

func NewListingController(s *service.ListingService) *ListingController {
	return &ListingController{Service: s}
}

// GET /listings: catálogo público
func (ctl *ListingController) Public(c *gin.Context) {
	ls, err := ctl.Service.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ls)
}

// GET /listings/:id
func (ctl *ListingController) Get(c *gin.Context) {
	l, err := ctl.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// POST /listings
func (ctl *ListingController) Create(c *gin.Context) {
	var req dto.CreateListingRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := ctl.Service.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// GET /listings/mine
func (ctl *ListingController) Mine(c *gin.Context) {
	ls, err := ctl.Service.ListMine(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ls)
}

// DELETE /listings/:id
func (ctl *ListingController) Delete(c *gin.Context) {
	if err := ctl.Service.Delete(c.Request.Context(), c.Param("id"), currentUser(c), middleware.IsAdmin(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /listings/read
func (ctl *ListingController) MarkRead(c *gin.Context) {
	var req dto.MarkReadRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := ctl.Service.MarkRead(c.Request.Context(), currentUser(c), req.IDs, req.All)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{Updated: n})
}

// GET /admin/listings?status=pending
func (ctl *ListingController) ByStatus(c *gin.Context) {
	status := model.ListingStatus(c.DefaultQuery("status", string(model.ListingPending)))
	ls, err := ctl.Service.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ls)
}

// POST /admin/listings/:id/review
func (ctl *ListingController) Review(c *gin.Context) {
	var req dto.ReviewListingRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := ctl.Service.Review(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}
