package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sportsequipment/shopclient/apiclient"
	"github.com/sportsequipment/shopclient/lib/myerrors"
)

func TestProductService(t *testing.T) {

	t.Run("List", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock := setup(t, ctrl)

		// given
		clientMock.EXPECT().Get(c, "/products").Return([]byte(`[
			{"id": 7, "name": "Running shoes", "price": 10, "stock": 12, "imageUrl": "/img/shoes.png"},
			{"id": 8, "name": "Football", "price": 24.95, "stock": 3}
		]`), nil)

		// when
		products, err := sut.List(c)

		// then
		assert.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Equal(t, "Running shoes", products[0].Name)
		assert.True(t, products[1].Price.Equal(decimal.RequireFromString("24.95")))
	})

	t.Run("ListPaged sends page and size as query params", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock := setup(t, ctrl)

		// given
		clientMock.EXPECT().Get(c, "/products?page=2&size=10").Return([]byte(`{
			"content": [{"id": 21, "name": "Tennis racket", "price": 89.99}],
			"totalElements": 21,
			"totalPages": 3,
			"number": 2,
			"size": 10
		}`), nil)

		// when
		page, err := sut.ListPaged(c, 2, 10)

		// then
		assert.NoError(t, err)
		assert.Len(t, page.Content, 1)
		assert.Equal(t, int64(21), page.TotalElements)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 2, page.Number)
	})

	t.Run("Get", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock := setup(t, ctrl)

		// given
		clientMock.EXPECT().Get(c, "/products/7").Return([]byte(`{
			"id": 7, "name": "Running shoes", "price": 10,
			"mainCategoryId": 1, "mainCategoryName": "Footwear"
		}`), nil)

		// when
		result, err := sut.Get(c, 7)

		// then
		assert.NoError(t, err)
		assert.Equal(t, int64(7), result.ID)
		assert.Equal(t, "Footwear", result.MainCategoryName)
	})

	t.Run("Get of unknown product propagates the not-found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock := setup(t, ctrl)

		// given
		clientMock.EXPECT().Get(c, "/products/999").
			Return(nil, myerrors.NewHTTPError(404, assert.AnError))

		// when
		_, err := sut.Get(c, 999)

		// then
		assert.Error(t, err)
		assert.Equal(t, 404, myerrors.GetHttpStatus(err))
	})

	t.Run("Create posts the product as JSON", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock := setup(t, ctrl)

		// given
		clientMock.EXPECT().Post(c, "/products", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, body []byte) ([]byte, error) {
				assert.Contains(t, string(body), `"name":"Football"`)

				return []byte(`{"id": 8, "name": "Football", "price": 24.95}`), nil
			})

		// when
		created, err := sut.Create(c, Product{Name: "Football", Price: decimal.RequireFromString("24.95")})

		// then
		assert.NoError(t, err)
		assert.Equal(t, int64(8), created.ID)
	})

	t.Run("Update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock := setup(t, ctrl)

		// given
		clientMock.EXPECT().Put(c, "/products/8", gomock.Any()).
			Return([]byte(`{"id": 8, "name": "Football", "price": 19.95}`), nil)

		// when
		updated, err := sut.Update(c, 8, Product{Name: "Football", Price: decimal.RequireFromString("19.95")})

		// then
		assert.NoError(t, err)
		assert.True(t, updated.Price.Equal(decimal.RequireFromString("19.95")))
	})

	t.Run("Delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock := setup(t, ctrl)

		// given
		clientMock.EXPECT().Delete(c, "/products/8").Return([]byte(``), nil)

		// when
		err := sut.Delete(c, 8)

		// then
		assert.NoError(t, err)
	})

	t.Run("UploadImage sends the file as multipart form data", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock := setup(t, ctrl)

		// given
		clientMock.EXPECT().PostMultipart(c, "/files/upload/product", "file", "shoes.png", []byte{0x89, 0x50}).
			Return([]byte(`{"fileName": "product_shoes.png", "fileUrl": "/api/files/product_shoes.png", "fileType": "image/png", "size": "2"}`), nil)

		// when
		resp, err := sut.UploadImage(c, "shoes.png", []byte{0x89, 0x50})

		// then
		assert.NoError(t, err)
		assert.Equal(t, "product_shoes.png", resp.FileName)
		assert.Equal(t, "/api/files/product_shoes.png", resp.FileURL)
	})

	t.Run("Categories returns the three-level tree", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, clientMock := setup(t, ctrl)

		// given
		clientMock.EXPECT().Get(c, "/categories").Return([]byte(`[
			{"id": 1, "name": "Footwear", "subCategories": [
				{"id": 11, "name": "Running", "thirdCategories": [
					{"id": 111, "name": "Trail"}
				]}
			]}
		]`), nil)

		// when
		categories, err := sut.Categories(c)

		// then
		assert.NoError(t, err)
		assert.Len(t, categories, 1)
		assert.Equal(t, "Running", categories[0].SubCategories[0].Name)
		assert.Equal(t, "Trail", categories[0].SubCategories[0].ThirdCategories[0].Name)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *Service, *apiclient.MockClient) {
	c := context.TODO()
	clientMock := apiclient.NewMockClient(ctrl)
	sut := NewService(clientMock)

	return c, sut, clientMock
}
