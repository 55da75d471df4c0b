package rabbit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agro-order-service/internal/dto"
	"agro-order-service/internal/model"
	"agro-order-service/internal/service"
)

type placerMock struct {
	mock.Mock
}

func (m *placerMock) PlaceOrder(ctx context.Context, buyerID string, req dto.PlaceOrderRequest) (*model.Order, error) {
	args := m.Called(buyerID, req)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

const singleArticle = `{
  "correlation_id": "c-1",
  "exchange": "order_placed",
  "message": {
    "orderId": "o-1",
    "userId": "buyer-1",
    "articles": [{"articleId": "l-1", "quantity": 100}],
    "country": "México",
    "shippingMethod": "barco",
    "paymentMethod": "transferencia",
    "shipping": {"addressLine1": "Calle 1", "city": "CDMX"}
  }
}`

func TestHandle_PlacesOrder(t *testing.T) {
	p := &placerMock{}
	p.On("PlaceOrder", "buyer-1", mock.MatchedBy(func(r dto.PlaceOrderRequest) bool {
		return r.OrderID == "o-1" && r.ListingID == "l-1" && r.QuantityKg == 100 &&
			r.Country == "México" && r.Shipping.City == "CDMX"
	})).Return(&model.Order{OrderID: "o-1"}, nil).Once()

	err := NewPlaceOrderConsumer(p).Handle(context.Background(), []byte(singleArticle))
	require.NoError(t, err)
	p.AssertExpectations(t)
}

func TestHandle_DuplicateIsIgnored(t *testing.T) {
	p := &placerMock{}
	p.On("PlaceOrder", "buyer-1", mock.Anything).Return(nil, service.ErrOrderAlreadyExists).Once()

	err := NewPlaceOrderConsumer(p).Handle(context.Background(), []byte(singleArticle))
	assert.NoError(t, err)
}

func TestHandle_MultipleArticles(t *testing.T) {
	msg := `{"message":{"orderId":"o-9","userId":"b","articles":[{"articleId":"l-1","quantity":1},{"articleId":"l-2","quantity":2}],"country":"Chile","shippingMethod":"aereo","paymentMethod":"card"}}`
	p := &placerMock{}
	p.On("PlaceOrder", "b", mock.MatchedBy(func(r dto.PlaceOrderRequest) bool { return r.OrderID == "o-9-1" })).
		Return(&model.Order{}, nil).Once()
	p.On("PlaceOrder", "b", mock.MatchedBy(func(r dto.PlaceOrderRequest) bool { return r.OrderID == "o-9-2" })).
		Return(nil, errors.New("boom")).Once()

	err := NewPlaceOrderConsumer(p).Handle(context.Background(), []byte(msg))
	assert.Error(t, err)
	p.AssertExpectations(t)
}

func TestHandle_InvalidJSON(t *testing.T) {
	p := &placerMock{}
	err := NewPlaceOrderConsumer(p).Handle(context.Background(), []byte("{nope"))
	assert.Error(t, err)
	p.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}
