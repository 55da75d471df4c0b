package dto

import "time"

type ActivityType string

const (
	ActivityEmpty  ActivityType = "empty"
	ActivityBuyer  ActivityType = "buyer"
	ActivitySeller ActivityType = "seller"
	ActivityMixed  ActivityType = "mixed"
)

type SellerKPIs struct {
	QuotationsLast7Days int    `json:"quotationsLast7Days"`
	PendingQuotations   int    `json:"pendingQuotations"`
	ConfirmedOrders     int    `json:"confirmedOrders"`
	InNegotiationValue  string `json:"inNegotiationValue"`
}

type BuyerKPIs struct {
	RequestsSent       int    `json:"requestsSent"`
	QuotationsReceived int    `json:"quotationsReceived"`
	OrdersInProcess    int    `json:"ordersInProcess"`
	AmountPurchased    string `json:"amountPurchased"`
}

// Pipeline es el embudo de cuatro etapas, siempre recalculado desde las entidades.
type Pipeline struct {
	Request     int `json:"request"`
	Quoted      int `json:"quoted"`
	Negotiation int `json:"negotiation"`
	Confirmed   int `json:"confirmed"`
}

type SellerDashboard struct {
	KPIs     SellerKPIs `json:"kpis"`
	Pipeline Pipeline   `json:"pipeline"`
}

type BuyerDashboard struct {
	KPIs     BuyerKPIs `json:"kpis"`
	Pipeline Pipeline  `json:"pipeline"`
}

type ActivityEntry struct {
	Kind      string    `json:"kind"`
	Role      string    `json:"role"`
	RefID     string    `json:"refId"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type Dashboard struct {
	ActivityType   ActivityType     `json:"activityType"`
	Seller         *SellerDashboard `json:"seller,omitempty"`
	Buyer          *BuyerDashboard  `json:"buyer,omitempty"`
	RecentActivity []ActivityEntry  `json:"recentActivity"`
}
