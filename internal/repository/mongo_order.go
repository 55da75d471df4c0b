package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agro-order-service/internal/apperr"
	"agro-order-service/internal/model"
)

var errOrderNotFound = fmt.Errorf("%w: orden no encontrada", apperr.ErrNotFound)

// Mongo implementation
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("orders")}
}

// EnsureIndexes crea el índice único de order_id y los de las partes.
func (m *MongoOrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "buyer_id", Value: 1}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return persistence(err)
}

func (m *MongoOrderRepository) Create(ctx context.Context, o *model.Order) error {
	_, err := m.col.InsertOne(ctx, o)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: la orden %s ya existe", apperr.ErrConflict, o.OrderID)
	}
	return persistence(err)
}

func (m *MongoOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var res model.Order
	err := m.col.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errOrderNotFound
	}
	if err != nil {
		return nil, persistence(err)
	}
	return &res, nil
}

// UpdateStatus escribe estado, banderas y la entrada nueva en un solo
// FindOneAndUpdate filtrado por el estado esperado.
func (m *MongoOrderRepository) UpdateStatus(ctx context.Context, orderID string, expected model.OrderStatus, entry model.TrackingEntry, flags model.ReadFlags) (*model.Order, error) {
	filter := bson.M{
		"order_id": orderID,
		"status":   expected,
	}

	update := bson.M{
		"$set": bson.M{
			"status":            entry.Status,
			"is_read_by_buyer":  flags.Buyer,
			"is_read_by_seller": flags.Seller,
			"updated_at":        entry.Timestamp,
		},
		"$push": bson.M{
			"tracking_history": entry,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out model.Order
	err := m.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// No coincidió: o no existe o alguien cambió el estado antes
		n, cerr := m.col.CountDocuments(ctx, bson.M{"order_id": orderID})
		if cerr != nil {
			return nil, persistence(cerr)
		}
		if n == 0 {
			return nil, errOrderNotFound
		}
		return nil, fmt.Errorf("%w: el estado ya no es %s", apperr.ErrConflict, expected)
	}
	if err != nil {
		return nil, persistence(err)
	}
	return &out, nil
}

func (m *MongoOrderRepository) FindAll(ctx context.Context) ([]*model.Order, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoOrderRepository) FindByStatus(ctx context.Context, status model.OrderStatus) ([]*model.Order, error) {
	return m.find(ctx, bson.M{"status": status})
}

func (m *MongoOrderRepository) FindByParty(ctx context.Context, userID string, role model.Role) ([]*model.Order, error) {
	return m.find(ctx, partyFilter(userID, role))
}

func (m *MongoOrderRepository) MarkRead(ctx context.Context, userID string, role model.Role, orderIDs []string) (int64, error) {
	flag := "is_read_by_buyer"
	if role == model.RoleSeller {
		flag = "is_read_by_seller"
	}

	filter := partyFilter(userID, role)
	filter[flag] = false
	if orderIDs != nil {
		filter["order_id"] = bson.M{"$in": orderIDs}
	}

	res, err := m.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{flag: true}})
	if err != nil {
		return 0, persistence(err)
	}
	return res.ModifiedCount, nil
}

func (m *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]*model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, persistence(err)
	}
	defer cur.Close(ctx)

	var out []*model.Order
	for cur.Next(ctx) {
		var v model.Order
		if err := cur.Decode(&v); err != nil {
			return nil, persistence(err)
		}
		out = append(out, &v)
	}
	return out, persistence(cur.Err())
}

func partyFilter(userID string, role model.Role) bson.M {
	switch role {
	case model.RoleBuyer:
		return bson.M{"buyer_id": userID}
	case model.RoleSeller:
		return bson.M{"seller_id": userID}
	}
	return bson.M{"$or": bson.A{
		bson.M{"buyer_id": userID},
		bson.M{"seller_id": userID},
	}}
}

func persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
}
