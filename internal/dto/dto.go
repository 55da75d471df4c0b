// dto.go
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"agro-order-service/internal/model"
)

// PlaceOrderRequest lo usan la API y el consumer de Rabbit para crear una orden
type PlaceOrderRequest struct {
	// OrderID opcional; lo envía el checkout para que la creación sea idempotente
	OrderID        string      `json:"orderId,omitempty"`
	ListingID      string      `json:"listingId" binding:"required" validate:"required"`
	QuantityKg     float64     `json:"quantityKg" binding:"required,gt=0" validate:"gt=0"`
	Country        string      `json:"country" binding:"required" validate:"required"`
	ShippingMethod string      `json:"shippingMethod" binding:"required" validate:"required"`
	PaymentMethod  string      `json:"paymentMethod" binding:"required" validate:"required"`
	Shipping       ShippingDTO `json:"shipping"`
}

// ShippingDTO para la dirección y comentario
type ShippingDTO struct {
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Province     string `json:"province"`
	Country      string `json:"country"`
	Comments     string `json:"comments"`
}

type UpdateStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Location string `json:"location"`
	Note     string `json:"note"`
}

// MarkReadRequest acepta {ids: [...]} o {all: true}
type MarkReadRequest struct {
	IDs  []string `json:"ids"`
	All  bool     `json:"all"`
	Role string   `json:"role"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

type ProductDTO struct {
	ListingID  string `json:"listingId"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl"`
	PricePerKg string `json:"pricePerKg"`
}

type TrackingEntryDTO struct {
	Status    model.OrderStatus `json:"status"`
	Location  string            `json:"location,omitempty"`
	Note      string            `json:"note,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ActionDTO es un control disponible para quien mira la orden.
type ActionDTO struct {
	Type    string              `json:"type"`
	Targets []model.OrderStatus `json:"targets"`
}

const (
	ActionAdvance         = "advance"
	ActionJump            = "jump"
	ActionConfirmDelivery = "confirm_delivery"
)

// OrderView es la proyección de una orden para el comprador o el vendedor.
type OrderView struct {
	ID              string             `json:"id"`
	ViewerRole      model.Role         `json:"viewerRole"`
	BuyerID         string             `json:"buyerId"`
	SellerID        string             `json:"sellerId"`
	Product         ProductDTO         `json:"product"`
	QuantityKg      float64            `json:"quantityKg"`
	UnitPrice       string             `json:"unitPrice"`
	Subtotal        string             `json:"subtotal"`
	TaxRate         string             `json:"taxRate"`
	Tax             string             `json:"tax"`
	ShippingCost    string             `json:"shippingCost"`
	TotalPrice      string             `json:"totalPrice"`
	Country         string             `json:"country"`
	ShippingMethod  string             `json:"shippingMethod"`
	PaymentMethod   string             `json:"paymentMethod"`
	ShippingAddress ShippingDTO        `json:"shippingAddress"`
	Status          model.OrderStatus  `json:"status"`
	IsRead          bool               `json:"isRead"`
	TrackingHistory []TrackingEntryDTO `json:"trackingHistory"`
	Actions         []ActionDTO        `json:"actions"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

type TransitionResponse struct {
	Order   *OrderView `json:"order"`
	Warning string     `json:"warning,omitempty"`
}

type CreateQuotationRequest struct {
	ProductID          string    `json:"productId" validate:"required"`
	BuyerName          string    `json:"buyerName" validate:"required"`
	BuyerEmail         string    `json:"buyerEmail" validate:"required,email"`
	BuyerPhone         string    `json:"buyerPhone"`
	BuyerCompany       string    `json:"buyerCompany"`
	QuantityKg         float64   `json:"quantityKg" validate:"gt=0"`
	DestinationCountry string    `json:"destinationCountry" validate:"required"`
	EstimatedDate      time.Time `json:"estimatedDate" validate:"required"`
	TargetPrice        string    `json:"targetPrice" validate:"omitempty,numeric"`
	Incoterm           string    `json:"incoterm" validate:"required,oneof=EXW FCA FAS FOB CFR CIF CPT CIP DAP DPU DDP"`
}

type ReplyQuotationRequest struct {
	OfferedPrice string `json:"offeredPrice" validate:"omitempty,numeric"`
	Message      string `json:"message"`
}

type CreateListingRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=255"`
	Description   string  `json:"description" validate:"max=5000"`
	ImageURL      string  `json:"imageUrl" validate:"omitempty,url"`
	Category      string  `json:"category" validate:"required"`
	PricePerKg    string  `json:"pricePerKg" validate:"required,numeric"`
	MinOrderKg    float64 `json:"minOrderKg" validate:"gte=0"`
	StockKg       float64 `json:"stockKg" validate:"gte=0"`
	OriginCountry string  `json:"originCountry"`
}

type ReviewListingRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

type SendMessageRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	OrderID     string `json:"orderId"`
	Body        string `json:"body" validate:"required,max=4000"`
}

type UpdateProfileRequest struct {
	CompanyName string `json:"companyName"`
	Country     string `json:"country"`
	Phone       string `json:"phone"`
	TaxID       string `json:"taxId"`
	Address     string `json:"address"`
}

type ProfileResponse struct {
	Profile       *model.Profile `json:"profile"`
	MissingFields []string       `json:"missingFields"`
	Complete      bool           `json:"complete"`
}

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type NewsletterRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Body    string `json:"body" validate:"required"`
}

// BatchResult resume un envío masivo; los fallos no cancelan el lote.
type BatchResult struct {
	Total           int      `json:"total"`
	Sent            int      `json:"sent"`
	Failed          int      `json:"failed"`
	FailedAddresses []string `json:"failedAddresses"`
}

// FormatCents muestra centavos como importe con dos decimales.
func FormatCents(c int64) string {
	return decimal.New(c, -2).StringFixed(2)
}
