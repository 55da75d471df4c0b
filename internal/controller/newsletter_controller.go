package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agro-order-service/internal/dto"
	"agro-order-service/internal/service"
)

type NewsletterController struct {
	Service *service.NewsletterService
}

func NewNewsletterController(s *service.NewsletterService) *NewsletterController {
	return &NewsletterController{Service: s}
}

// POST /newsletter/subscribe: público
func (ctl *NewsletterController) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := ctl.Service.Subscribe(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// GET /admin/subscribers
func (ctl *NewsletterController) Subscribers(c *gin.Context) {
	subs, err := ctl.Service.Subscribers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// POST /admin/newsletters: el resultado informa los envíos fallidos
func (ctl *NewsletterController) Send(c *gin.Context) {
	var req dto.NewsletterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := ctl.Service.Send(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
