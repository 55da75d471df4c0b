package model

import "time"

type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "Pending"
	QuotationReplied  QuotationStatus = "Replied"
	QuotationRejected QuotationStatus = "Rejected"
)

// Quotation es una consulta de precio previa a la compra.
type Quotation struct {
	ID                 string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProductID          string          `gorm:"type:varchar(36);not null;index" json:"productId"`
	ProductName        string          `gorm:"type:varchar(255)" json:"productName"`
	SellerID           string          `gorm:"type:varchar(64);not null;index" json:"sellerId"`
	BuyerID            string          `gorm:"type:varchar(64);not null;index" json:"buyerId"`
	BuyerName          string          `gorm:"type:varchar(255);not null" json:"buyerName"`
	BuyerEmail         string          `gorm:"type:varchar(255);not null" json:"buyerEmail"`
	BuyerPhone         string          `gorm:"type:varchar(50)" json:"buyerPhone"`
	BuyerCompany       string          `gorm:"type:varchar(255)" json:"buyerCompany"`
	QuantityKg         float64         `gorm:"not null" json:"quantityKg"`
	DestinationCountry string          `gorm:"type:varchar(100);not null" json:"destinationCountry"`
	EstimatedDate      time.Time       `json:"estimatedDate"`
	TargetPriceCents   int64           `json:"targetPriceCents"`
	Incoterm           string          `gorm:"type:varchar(10);not null" json:"incoterm"`
	Status             QuotationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	OfferedPriceCents  int64           `json:"offeredPriceCents,omitempty"`
	ReplyMessage       string          `gorm:"type:text" json:"replyMessage,omitempty"`
	RepliedAt          *time.Time      `json:"repliedAt,omitempty"`
	IsReadBySeller     bool            `gorm:"not null" json:"isReadBySeller"`
	IsReadByBuyer      bool            `gorm:"not null" json:"isReadByBuyer"`
	CreatedAt          time.Time       `gorm:"not null;index" json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

type ListingStatus string

const (
	ListingPending  ListingStatus = "pending"
	ListingApproved ListingStatus = "approved"
	ListingRejected ListingStatus = "rejected"
)

// Listing es la publicación de un producto por parte de un vendedor.
type Listing struct {
	ID              string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	SellerID        string        `gorm:"type:varchar(64);not null;index" json:"sellerId"`
	Name            string        `gorm:"type:varchar(255);not null" json:"name"`
	Description     string        `gorm:"type:text" json:"description"`
	ImageURL        string        `gorm:"type:varchar(512)" json:"imageUrl"`
	Category        string        `gorm:"type:varchar(100);index" json:"category"`
	PricePerKgCents int64         `gorm:"not null" json:"pricePerKgCents"`
	MinOrderKg      float64       `json:"minOrderKg"`
	StockKg         float64       `json:"stockKg"`
	OriginCountry   string        `gorm:"type:varchar(100)" json:"originCountry"`
	Status          ListingStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ReviewNote      string        `gorm:"type:text" json:"reviewNote,omitempty"`
	IsReadBySeller  bool          `gorm:"not null" json:"isReadBySeller"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Message entre las partes; OrderID es opcional.
type Message struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID     string     `gorm:"type:varchar(36);index" json:"orderId,omitempty"`
	SenderID    string     `gorm:"type:varchar(64);not null;index" json:"senderId"`
	RecipientID string     `gorm:"type:varchar(64);not null;index" json:"recipientId"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"createdAt"`
}

type Profile struct {
	UserID      string    `gorm:"type:varchar(64);primaryKey" json:"userId"`
	CompanyName string    `gorm:"type:varchar(255)" json:"companyName"`
	Country     string    `gorm:"type:varchar(100)" json:"country"`
	Phone       string    `gorm:"type:varchar(50)" json:"phone"`
	TaxID       string    `gorm:"type:varchar(50)" json:"taxId"`
	Address     string    `gorm:"type:varchar(512)" json:"address"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MissingFields devuelve los campos obligatorios del perfil que están vacíos.
func (p *Profile) MissingFields() []string {
	var missing []string
	if p.CompanyName == "" {
		missing = append(missing, "companyName")
	}
	if p.Country == "" {
		missing = append(missing, "country")
	}
	if p.Phone == "" {
		missing = append(missing, "phone")
	}
	if p.TaxID == "" {
		missing = append(missing, "taxId")
	}
	if p.Address == "" {
		missing = append(missing, "address")
	}
	return missing
}

type Subscriber struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnreadCounts alimenta los badges de la barra lateral.
type UnreadCounts struct {
	Orders     int `json:"orders"`
	Quotations int `json:"quotations"`
	Listings   int `json:"listings"`
	Messages   int `json:"messages"`
	Profile    int `json:"profile"`
	Total      int `json:"total"`
}
