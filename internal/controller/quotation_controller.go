package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agro-order-service/internal/dto"
	"agro-order-service/internal/middleware"
	"agro-order-service/internal/model"
	"agro-order-service/internal/service"
)

type QuotationController struct {
	Service *service.QuotationService
}

func NewQuotationController(s *service.QuotationService) *QuotationController {
	return &QuotationController{Service: s}
}

// POST /quotations
func (ctl *QuotationController) Create(c *gin.Context) {
	var req dto.CreateQuotationRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := ctl.Service.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// GET /quotations/received
func (ctl *QuotationController) Received(c *gin.Context) {
	qs, err := ctl.Service.ListForSeller(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qs)
}

// GET /quotations/sent
func (ctl *QuotationController) Sent(c *gin.Context) {
	qs, err := ctl.Service.ListForBuyer(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qs)
}

// GET /quotations/:id
func (ctl *QuotationController) Get(c *gin.Context) {
	q, err := ctl.Service.Get(c.Request.Context(), c.Param("id"), currentUser(c), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /quotations/:id/reply
func (ctl *QuotationController) Reply(c *gin.Context) {
	var req dto.ReplyQuotationRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := ctl.Service.Reply(c.Request.Context(), c.Param("id"), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /quotations/:id/reject
func (ctl *QuotationController) Reject(c *gin.Context) {
	var req dto.ReplyQuotationRequest
	_ = c.ShouldBindJSON(&req)
	q, err := ctl.Service.Reject(c.Request.Context(), c.Param("id"), currentUser(c), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /quotations/read
func (ctl *QuotationController) MarkRead(c *gin.Context) {
	var req dto.MarkReadRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := ctl.Service.MarkRead(c.Request.Context(), currentUser(c), model.Role(req.Role), req.IDs, req.All)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{Updated: n})
}

// GET /admin/quotations
func (ctl *QuotationController) All(c *gin.Context) {
	qs, err := ctl.Service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qs)
}
