package cart

import (
	"context"
	"encoding/json"
	"fmt"

	formcodec "github.com/go-playground/form/v4"

	"github.com/sportsequipment/shopclient/apiclient"
	"github.com/sportsequipment/shopclient/lib/myerrors"
	"github.com/sportsequipment/shopclient/lib/mylog"
	"github.com/sportsequipment/shopclient/services/cart/store"
)

type Service struct {
	client    apiclient.Client
	cartStore *store.CartStore
	encoder   *formcodec.Encoder
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(client apiclient.Client, cartStore *store.CartStore) *Service {
	return &Service{
		client:    client,
		cartStore: cartStore,
		encoder:   formcodec.NewEncoder(),
		logger:    mylog.New("cart"),
	}
}

// GetCart fetches the current user's cart and reconciles it into the
// local store.
func (s *Service) GetCart(c context.Context) (Cart, error) {
	s.logger.Log(c, "cart", mylog.SeverityInfo, "Fetching cart")

	body, err := s.client.Get(c, "/cart")
	if err != nil {
		return Cart{}, s.failed(c, err, "fetching cart failed")
	}

	return s.reconcile(c, body)
}

func (s *Service) AddItem(c context.Context, productID int64, quantity int) (Cart, error) {
	s.logger.Log(c, "cart", mylog.SeverityInfo, "Adding product %d (quantity %d) to cart", productID, quantity)

	query, err := s.encoder.Encode(addItemParams{ProductID: productID, Quantity: quantity})
	if err != nil {
		return Cart{}, myerrors.NewInternalError(fmt.Errorf("error encoding cart-item params: %s", err))
	}

	body, err := s.client.Post(c, "/cart/items?"+query.Encode(), nil)
	if err != nil {
		return Cart{}, s.failed(c, err, "adding item to cart failed")
	}

	return s.reconcile(c, body)
}

func (s *Service) UpdateItem(c context.Context, cartItemID int64, quantity int) (Cart, error) {
	s.logger.Log(c, "cart", mylog.SeverityInfo, "Updating cart item %d to quantity %d", cartItemID, quantity)

	query, err := s.encoder.Encode(updateItemParams{Quantity: quantity})
	if err != nil {
		return Cart{}, myerrors.NewInternalError(fmt.Errorf("error encoding cart-item params: %s", err))
	}

	body, err := s.client.Put(c, fmt.Sprintf("/cart/items/%d?%s", cartItemID, query.Encode()), nil)
	if err != nil {
		return Cart{}, s.failed(c, err, "updating cart item failed")
	}

	return s.reconcile(c, body)
}

func (s *Service) RemoveItem(c context.Context, cartItemID int64) (Cart, error) {
	s.logger.Log(c, "cart", mylog.SeverityInfo, "Removing cart item %d", cartItemID)

	body, err := s.client.Delete(c, fmt.Sprintf("/cart/items/%d", cartItemID))
	if err != nil {
		return Cart{}, s.failed(c, err, "removing cart item failed")
	}

	return s.reconcile(c, body)
}

func (s *Service) ClearCart(c context.Context) error {
	s.logger.Log(c, "cart", mylog.SeverityInfo, "Clearing cart")

	_, err := s.client.Delete(c, "/cart")
	if err != nil {
		return s.failed(c, err, "clearing cart failed")
	}

	s.cartStore.Clear(c)

	return nil
}

func (s *Service) ItemCount(c context.Context) (int, error) {
	body, err := s.client.Get(c, "/cart/count")
	if err != nil {
		return 0, err
	}

	count := 0
	err = json.Unmarshal(body, &count)
	if err != nil {
		return 0, myerrors.NewInternalError(fmt.Errorf("error parsing cart count: %s", err))
	}

	return count, nil
}

// reconcile makes the local store mirror the server's cart response.
func (s *Service) reconcile(c context.Context, body []byte) (Cart, error) {
	cart := Cart{}
	err := json.Unmarshal(body, &cart)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(fmt.Errorf("error parsing cart response: %s", err))
	}

	s.cartStore.SetItems(c, cart.toStoreItems())

	return cart, nil
}

func (s *Service) failed(c context.Context, err error, operation string) error {
	message := myerrors.GetMessage(err, operation)
	s.logger.Log(c, "cart", mylog.SeverityError, "%s: %s", operation, err)
	s.cartStore.SetError(c, message)

	return err
}
