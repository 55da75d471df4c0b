package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agro-order-service/internal/dto"
	"agro-order-service/internal/middleware"
	"agro-order-service/internal/model"
	"agro-order-service/internal/service"
)

type OrderController struct {
	Service *service.OrderService
}

func NewOrderController(s *service.OrderService) *OrderController {
	return &OrderController{Service: s}
}

// POST /orders: el comprador es el usuario del token
func (ctl *OrderController) PlaceOrder(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	buyerID := currentUser(c)
	o, err := ctl.Service.PlaceOrder(c.Request.Context(), buyerID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, service.ProjectAs(o, model.RoleBuyer))
}

// PATCH /orders/:orderId/status: el rol sale de la relación con la orden
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	ctl.updateStatus(c, false)
}

// PATCH /admin/orders/:orderId/status: admin actúa con permisos de vendedor
func (ctl *OrderController) AdminUpdateStatus(c *gin.Context) {
	ctl.updateStatus(c, true)
}

func (ctl *OrderController) updateStatus(c *gin.Context, asAdmin bool) {
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := ctl.Service.AdvanceStatus(c.Request.Context(), service.AdvanceInput{
		OrderID:  c.Param("orderId"),
		Target:   model.OrderStatus(req.Status),
		ActorID:  currentUser(c),
		AsAdmin:  asAdmin,
		Location: req.Location,
		Note:     req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transitionResponse(res))
}

// POST /orders/:orderId/confirm-delivery: solo comprador
func (ctl *OrderController) ConfirmDelivery(c *gin.Context) {
	var req struct {
		Location string `json:"location"`
	}
	// el body es opcional
	_ = c.ShouldBindJSON(&req)

	res, err := ctl.Service.ConfirmDelivery(c.Request.Context(), c.Param("orderId"), currentUser(c), req.Location)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transitionResponse(res))
}

func transitionResponse(res *service.TransitionResult) dto.TransitionResponse {
	return dto.TransitionResponse{
		Order:   service.ProjectAs(res.Order, res.ActingRole),
		Warning: res.Warning,
	}
}

// GET /orders/:orderId
func (ctl *OrderController) GetOrder(c *gin.Context) {
	v, err := ctl.Service.GetForViewer(c.Request.Context(), c.Param("orderId"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GET /orders?role=buyer|seller
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	role := model.Role(c.Query("role"))
	orders, err := ctl.Service.ListForViewer(c.Request.Context(), currentUser(c), role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /orders/:orderId/latest
func (ctl *OrderController) GetLatestStatus(c *gin.Context) {
	last, err := ctl.Service.GetLatest(c.Request.Context(), c.Param("orderId"), currentUser(c), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, last)
}

// POST /orders/read: {ids: [...], role} o {all: true, role}
func (ctl *OrderController) MarkRead(c *gin.Context) {
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

// GET /admin/orders - admin only (middleware AdminOnly)
func (ctl *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := ctl.Service.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminViews(orders))
}

// GET /admin/orders/status/:status - admin only
func (ctl *OrderController) GetAllOrdersByStatus(c *gin.Context) {
	orders, err := ctl.Service.GetByStatus(c.Request.Context(), model.OrderStatus(c.Param("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminViews(orders))
}

// GET /admin/orders-with-status - resumen con la última entrada de cada orden
func (ctl *OrderController) GetAllOrdersWithLatest(c *gin.Context) {
	orders, err := ctl.Service.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		last, _ := o.Latest()
		out = append(out, gin.H{
			"orderId":   o.OrderID,
			"buyerId":   o.BuyerID,
			"sellerId":  o.SellerID,
			"status":    o.Status,
			"latest":    last,
			"shipping":  o.Shipping,
			"updatedAt": o.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, out)
}

func adminViews(orders []*model.Order) []*dto.OrderView {
	out := make([]*dto.OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, service.ProjectAs(o, model.RoleAdmin))
	}
	return out
}
