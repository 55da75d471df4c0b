package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agro-order-service/internal/dto"
	"agro-order-service/internal/service"
)

// AccountController agrupa lo que ve el usuario sobre sí mismo: mensajes,
// perfil, badges y dashboard.
type AccountController struct {
	Messages      *service.MessageService
	Profiles      *service.ProfileService
	Notifications *service.NotificationService
	Dashboard     *service.DashboardService
}

func NewAccountController(m *service.MessageService, p *service.ProfileService,
	n *service.NotificationService, d *service.DashboardService) *AccountController {
	return &AccountController{Messages: m, Profiles: p, Notifications: n, Dashboard: d}
}

// POST /messages
func (ctl *AccountController) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := ctl.Messages.Send(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GET /messages
func (ctl *AccountController) Inbox(c *gin.Context) {
	ms, err := ctl.Messages.Inbox(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

// GET /orders/:orderId/messages
func (ctl *AccountController) OrderMessages(c *gin.Context) {
	ms, err := ctl.Messages.ForOrder(c.Request.Context(), c.Param("orderId"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

// POST /messages/read
func (ctl *AccountController) MarkMessagesRead(c *gin.Context) {
	var req dto.MarkReadRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := ctl.Messages.MarkRead(c.Request.Context(), currentUser(c), req.IDs, req.All)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{Updated: n})
}

// GET /profile
func (ctl *AccountController) GetProfile(c *gin.Context) {
	p, err := ctl.Profiles.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT /profile
func (ctl *AccountController) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := ctl.Profiles.Update(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /notifications/unread
func (ctl *AccountController) UnreadCounts(c *gin.Context) {
	counts, err := ctl.Notifications.GetUnreadCounts(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GET /dashboard
func (ctl *AccountController) GetDashboard(c *gin.Context) {
	d, err := ctl.Dashboard.Build(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}
