package service

import (
	"context"
	"time"

	"agro-order-service/internal/model"
)

// Interfaz que debe implementar repository (Mongo o memoria)
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	// UpdateStatus aplica la transición solo si el estado actual sigue siendo
	// expected; escribe estado, banderas y la nueva entrada en una sola operación.
	UpdateStatus(ctx context.Context, orderID string, expected model.OrderStatus, entry model.TrackingEntry, flags model.ReadFlags) (*model.Order, error)
	FindAll(ctx context.Context) ([]*model.Order, error)
	FindByStatus(ctx context.Context, status model.OrderStatus) ([]*model.Order, error)
	// FindByParty con role vacío devuelve las órdenes donde el usuario es comprador o vendedor.
	FindByParty(ctx context.Context, userID string, role model.Role) ([]*model.Order, error)
	// MarkRead con orderIDs nil marca todas las órdenes del usuario en ese rol.
	MarkRead(ctx context.Context, userID string, role model.Role, orderIDs []string) (int64, error)
}

type QuotationRepository interface {
	Create(ctx context.Context, q *model.Quotation) error
	FindByID(ctx context.Context, id string) (*model.Quotation, error)
	ListBySeller(ctx context.Context, sellerID string) ([]model.Quotation, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]model.Quotation, error)
	ListAll(ctx context.Context) ([]model.Quotation, error)
	// Answer pasa la cotización de Pending a status; falla con ErrConflict si ya fue respondida.
	Answer(ctx context.Context, id string, status model.QuotationStatus, offeredCents int64, message string, at time.Time) error
	MarkRead(ctx context.Context, userID string, role model.Role, ids []string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

type ListingRepository interface {
	Create(ctx context.Context, l *model.Listing) error
	FindByID(ctx context.Context, id string) (*model.Listing, error)
	ListBySeller(ctx context.Context, sellerID string) ([]model.Listing, error)
	ListByStatus(ctx context.Context, status model.ListingStatus) ([]model.Listing, error)
	Delete(ctx context.Context, id string) error
	Review(ctx context.Context, id string, status model.ListingStatus, note string) error
	MarkRead(ctx context.Context, sellerID string, ids []string) (int64, error)
	CountUnread(ctx context.Context, sellerID string) (int, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	ListForRecipient(ctx context.Context, recipientID string) ([]model.Message, error)
	ListByOrder(ctx context.Context, orderID string) ([]model.Message, error)
	MarkRead(ctx context.Context, recipientID string, ids []string, at time.Time) (int64, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	Upsert(ctx context.Context, p *model.Profile) error
}

type SubscriberRepository interface {
	Add(ctx context.Context, email string) (*model.Subscriber, error)
	List(ctx context.Context) ([]model.Subscriber, error)
}

// UnreadCache guarda los contadores ya calculados por usuario.
type UnreadCache interface {
	Get(ctx context.Context, userID string) (*model.UnreadCounts, bool)
	Set(ctx context.Context, userID string, c *model.UnreadCounts)
	Invalidate(ctx context.Context, userIDs ...string)
}

// EventPublisher publica eventos de dominio (RabbitMQ en producción).
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Mailer entrega un correo a un destinatario.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*model.UnreadCounts, bool) { return nil, false }
func (nopCache) Set(context.Context, string, *model.UnreadCounts)       {}
func (nopCache) Invalidate(context.Context, ...string)                  {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }
