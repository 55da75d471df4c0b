// models.go
package model

import "time"

type Order struct {
	OrderID  string          `bson:"order_id" json:"id"`
	BuyerID  string          `bson:"buyer_id" json:"buyerId"`
	SellerID string          `bson:"seller_id" json:"sellerId"`
	Product  ProductSnapshot `bson:"product" json:"product"`

	QuantityKg float64 `bson:"quantity_kg" json:"quantityKg"`

	// Importes en centavos, congelados al momento de la compra
	UnitPriceCents int64  `bson:"unit_price_cents" json:"unitPriceCents"`
	SubtotalCents  int64  `bson:"subtotal_cents" json:"subtotalCents"`
	TaxRate        string `bson:"tax_rate" json:"taxRate"`
	TaxCents       int64  `bson:"tax_cents" json:"taxCents"`
	ShippingCents  int64  `bson:"shipping_cents" json:"shippingCents"`
	TotalCents     int64  `bson:"total_cents" json:"totalCents"`

	Country        string   `bson:"country" json:"country"`
	ShippingMethod string   `bson:"shipping_method" json:"shippingMethod"`
	PaymentMethod  string   `bson:"payment_method" json:"paymentMethod"`
	Shipping       Shipping `bson:"shipping" json:"shipping"`

	Status          OrderStatus     `bson:"status" json:"status"` // estado actual
	TrackingHistory []TrackingEntry `bson:"tracking_history" json:"trackingHistory"`

	IsReadBySeller bool `bson:"is_read_by_seller" json:"isReadBySeller"`
	IsReadByBuyer  bool `bson:"is_read_by_buyer" json:"isReadByBuyer"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ProductSnapshot es la copia del producto al momento de la compra; no sigue
// las ediciones posteriores de la publicación.
type ProductSnapshot struct {
	ListingID      string `bson:"listing_id" json:"listingId"`
	Name           string `bson:"name" json:"name"`
	ImageURL       string `bson:"image_url" json:"imageUrl"`
	PricePerKgCent int64  `bson:"price_per_kg_cents" json:"pricePerKgCents"`
}

type Shipping struct {
	AddressLine1 string `bson:"address_line1" json:"addressLine1"`
	City         string `bson:"city" json:"city"`
	PostalCode   string `bson:"postal_code" json:"postalCode"`
	Province     string `bson:"province" json:"province"`
	Country      string `bson:"country" json:"country"`
	Comments     string `bson:"comments" json:"comments"`
}

// TrackingEntry se agrega al final del historial y nunca se edita.
type TrackingEntry struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Location  string      `bson:"location,omitempty" json:"location,omitempty"`
	Note      string      `bson:"note,omitempty" json:"note,omitempty"`
	UserID    string      `bson:"user" json:"userId"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
}

// RoleOf devuelve el rol que tiene el usuario en esta orden, o "" si no es parte.
func (o *Order) RoleOf(userID string) Role {
	switch userID {
	case "":
		return ""
	case o.BuyerID:
		return RoleBuyer
	case o.SellerID:
		return RoleSeller
	}
	return ""
}

// IsReadBy devuelve la bandera de lectura del rol indicado.
func (o *Order) IsReadBy(role Role) bool {
	if role == RoleSeller {
		return o.IsReadBySeller
	}
	return o.IsReadByBuyer
}

// Latest devuelve la última entrada del historial.
func (o *Order) Latest() (TrackingEntry, bool) {
	if len(o.TrackingHistory) == 0 {
		return TrackingEntry{}, false
	}
	return o.TrackingHistory[len(o.TrackingHistory)-1], true
}

// ReadFlags es el par de banderas que se escribe junto con una transición.
type ReadFlags struct {
	Buyer  bool
	Seller bool
}
