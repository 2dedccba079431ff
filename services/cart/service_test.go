package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sportsequipment/shopclient/apiclient"
	"github.com/sportsequipment/shopclient/lib/myerrors"
	"github.com/sportsequipment/shopclient/lib/mypublisher"
	"github.com/sportsequipment/shopclient/lib/mytime"
	"github.com/sportsequipment/shopclient/lib/myuuid"
	"github.com/sportsequipment/shopclient/services/cart/store"
)

var cartResponse = []byte(`{
	"id": 1,
	"userId": 42,
	"username": "admin",
	"cartItems": [
		{"id": 11, "productId": 7, "productName": "Running shoes", "imageUrl": "/img/shoes.png", "quantity": 2, "price": 10, "itemTotal": 20},
		{"id": 12, "productId": 8, "productName": "Football", "imageUrl": "/img/ball.png", "quantity": 1, "price": 24.95, "itemTotal": 24.95}
	]
}`)

func TestCartService(t *testing.T) {

	t.Run("GetCart reconciles the response into the local store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock, cartStore := setup(t, ctrl)

		// given
		clientMock.EXPECT().Get(c, "/cart").Return(cartResponse, nil)

		// when
		cart, err := sut.GetCart(c)

		// then
		assert.NoError(t, err)
		assert.Equal(t, int64(1), cart.ID)
		assert.Len(t, cart.CartItems, 2)
		assert.Equal(t, 3, cartStore.TotalItems())
		assert.True(t, cartStore.TotalPrice().Equal(decimal.RequireFromString("44.95")))
	})

	t.Run("AddItem sends product and quantity as query params", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock, cartStore := setup(t, ctrl)

		// given
		clientMock.EXPECT().Post(c, "/cart/items?productId=7&quantity=2", gomock.Nil()).Return(cartResponse, nil)

		// when
		_, err := sut.AddItem(c, 7, 2)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 3, cartStore.TotalItems())
	})

	t.Run("UpdateItem addresses the cart item by its own id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock, _ := setup(t, ctrl)

		// given
		clientMock.EXPECT().Put(c, "/cart/items/11?quantity=5", gomock.Nil()).Return(cartResponse, nil)

		// when
		_, err := sut.UpdateItem(c, 11, 5)

		// then
		assert.NoError(t, err)
	})

	t.Run("RemoveItem", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock, _ := setup(t, ctrl)

		// given
		clientMock.EXPECT().Delete(c, "/cart/items/11").Return(cartResponse, nil)

		// when
		_, err := sut.RemoveItem(c, 11)

		// then
		assert.NoError(t, err)
	})

	t.Run("ClearCart empties the local store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock, cartStore := setup(t, ctrl)

		// given
		cartStore.Add(c, store.Product{ID: 7, Name: "Running shoes", Price: decimal.RequireFromString("10")}, 2)
		clientMock.EXPECT().Delete(c, "/cart").Return([]byte(`{}`), nil)

		// when
		err := sut.ClearCart(c)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 0, cartStore.TotalItems())
	})

	t.Run("ItemCount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock, _ := setup(t, ctrl)

		// given
		clientMock.EXPECT().Get(c, "/cart/count").Return([]byte(`3`), nil)

		// when
		count, err := sut.ItemCount(c)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("Failed remote call records the error on the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock, cartStore := setup(t, ctrl)

		// given
		clientMock.EXPECT().Post(c, "/cart/items?productId=7&quantity=2", gomock.Nil()).
			Return(nil, myerrors.NewHTTPError(400, errors.New("Insufficient stock")))

		// when
		_, err := sut.AddItem(c, 7, 2)

		// then
		assert.Error(t, err)
		assert.Equal(t, "Insufficient stock", cartStore.LastError())
		assert.False(t, cartStore.Loading())
	})

	t.Run("Unreachable backend records the connectivity message", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock, cartStore := setup(t, ctrl)

		// given
		clientMock.EXPECT().Get(c, "/cart").Return(nil, myerrors.NewConnectivityError(assert.AnError))

		// when
		_, err := sut.GetCart(c)

		// then
		assert.Error(t, err)
		assert.Equal(t, "cannot reach the server, check that the backend is running and the network is up", cartStore.LastError())
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *Service, *apiclient.MockClient, *store.CartStore) {
	c := context.TODO()
	clientMock := apiclient.NewMockClient(ctrl)
	cartStore := store.New(mypublisher.New(mytime.RealNower{}, myuuid.RealUUIDer{}))
	sut := NewService(clientMock, cartStore)

	return c, sut, clientMock, cartStore
}
