package cart

import (
	"github.com/shopspring/decimal"

	"github.com/sportsequipment/shopclient/services/cart/store"
)

type Cart struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Username  string     `json:"username"`
	CartItems []CartItem `json:"cartItems"`
	CreatedAt string     `json:"createdAt,omitempty"`
	UpdatedAt string     `json:"updatedAt,omitempty"`
}

type CartItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	ImageURL    string          `json:"imageUrl"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ItemTotal   decimal.Decimal `json:"itemTotal"`
}

func (c Cart) toStoreItems() []store.Item {
	items := make([]store.Item, 0, len(c.CartItems))
	for _, item := range c.CartItems {
		items = append(items, store.Item{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Price:     item.Price,
			Image:     item.ImageURL,
			Quantity:  item.Quantity,
		})
	}

	return items
}

type addItemParams struct {
	ProductID int64 `form:"productId"`
	Quantity  int   `form:"quantity"`
}

type updateItemParams struct {
	Quantity int `form:"quantity"`
}
