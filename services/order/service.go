package order

import (
	"context"
	"encoding/json"
	"fmt"

	formcodec "github.com/go-playground/form/v4"

	"github.com/sportsequipment/shopclient/apiclient"
	"github.com/sportsequipment/shopclient/lib/myerrors"
	"github.com/sportsequipment/shopclient/lib/mylog"
)

type Service struct {
	client  apiclient.Client
	encoder *formcodec.Encoder
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(client apiclient.Client) *Service {
	return &Service{
		client:  client,
		encoder: formcodec.NewEncoder(),
		logger:  mylog.New("order"),
	}
}

// Create places an order from the server-side cart.
func (s *Service) Create(c context.Context, request CreateOrderRequest) (Order, error) {
	s.logger.Log(c, "order", mylog.SeverityInfo, "Creating order for recipient '%s'", request.RecipientName)

	body, err := json.Marshal(request)
	if err != nil {
		return Order{}, myerrors.NewInternalError(fmt.Errorf("error marshalling order request: %s", err))
	}

	respBody, err := s.client.Post(c, "/orders", body)
	if err != nil {
		return Order{}, err
	}

	return parseOrder(respBody)
}

// ListMine returns the calling user's own orders.
func (s *Service) ListMine(c context.Context) ([]Order, error) {
	body, err := s.client.Get(c, "/orders")
	if err != nil {
		return nil, err
	}

	return parseOrders(body)
}

func (s *Service) Get(c context.Context, orderID int64) (Order, error) {
	body, err := s.client.Get(c, fmt.Sprintf("/orders/%d", orderID))
	if err != nil {
		return Order{}, err
	}

	return parseOrder(body)
}

// ListAll returns every order in the system, requires the ADMIN role.
func (s *Service) ListAll(c context.Context) ([]Order, error) {
	body, err := s.client.Get(c, "/orders/all")
	if err != nil {
		return nil, err
	}

	return parseOrders(body)
}

// UpdateStatus moves an order through its lifecycle. The status travels as
// a query parameter, not in the body.
func (s *Service) UpdateStatus(c context.Context, orderID int64, status string) (Order, error) {
	s.logger.Log(c, "order", mylog.SeverityInfo, "Updating order %d to status %s", orderID, status)

	query, err := s.encoder.Encode(statusParams{Status: status})
	if err != nil {
		return Order{}, myerrors.NewInternalError(fmt.Errorf("error encoding status param: %s", err))
	}

	body, err := s.client.Put(c, fmt.Sprintf("/orders/%d/status?%s", orderID, query.Encode()), nil)
	if err != nil {
		return Order{}, err
	}

	return parseOrder(body)
}

func parseOrder(body []byte) (Order, error) {
	result := Order{}
	err := json.Unmarshal(body, &result)
	if err != nil {
		return Order{}, myerrors.NewInternalError(fmt.Errorf("error parsing order: %s", err))
	}

	return result, nil
}

func parseOrders(body []byte) ([]Order, error) {
	orders := []Order{}
	err := json.Unmarshal(body, &orders)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error parsing order list: %s", err))
	}

	return orders, nil
}
