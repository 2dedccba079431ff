package product

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
		logger:  mylog.New("product"),
	}
}

func (s *Service) List(c context.Context) ([]Product, error) {
	body, err := s.client.Get(c, "/products")
	if err != nil {
		return nil, err
	}

	products := []Product{}
	err = json.Unmarshal(body, &products)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error parsing product list: %s", err))
	}

	return products, nil
}

func (s *Service) ListPaged(c context.Context, page int, size int) (Page, error) {
	query, err := s.encoder.Encode(pageParams{Page: page, Size: size})
	if err != nil {
		return Page{}, myerrors.NewInternalError(fmt.Errorf("error encoding page params: %s", err))
	}

	body, err := s.client.Get(c, "/products?"+query.Encode())
	if err != nil {
		return Page{}, err
	}

	result := Page{}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return Page{}, myerrors.NewInternalError(fmt.Errorf("error parsing product page: %s", err))
	}

	return result, nil
}

func (s *Service) Get(c context.Context, productID int64) (Product, error) {
	body, err := s.client.Get(c, fmt.Sprintf("/products/%d", productID))
	if err != nil {
		return Product{}, err
	}

	result := Product{}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return Product{}, myerrors.NewInternalError(fmt.Errorf("error parsing product: %s", err))
	}

	return result, nil
}

// Create requires the ADMIN role on the server side.
func (s *Service) Create(c context.Context, product Product) (Product, error) {
	s.logger.Log(c, "product", mylog.SeverityInfo, "Creating product '%s'", product.Name)

	body, err := json.Marshal(product)
	if err != nil {
		return Product{}, myerrors.NewInternalError(fmt.Errorf("error marshalling product: %s", err))
	}

	respBody, err := s.client.Post(c, "/products", body)
	if err != nil {
		return Product{}, err
	}

	result := Product{}
	err = json.Unmarshal(respBody, &result)
	if err != nil {
		return Product{}, myerrors.NewInternalError(fmt.Errorf("error parsing product: %s", err))
	}

	return result, nil
}

func (s *Service) Update(c context.Context, productID int64, product Product) (Product, error) {
	s.logger.Log(c, "product", mylog.SeverityInfo, "Updating product %d", productID)

	body, err := json.Marshal(product)
	if err != nil {
		return Product{}, myerrors.NewInternalError(fmt.Errorf("error marshalling product: %s", err))
	}

	respBody, err := s.client.Put(c, fmt.Sprintf("/products/%d", productID), body)
	if err != nil {
		return Product{}, err
	}

	result := Product{}
	err = json.Unmarshal(respBody, &result)
	if err != nil {
		return Product{}, myerrors.NewInternalError(fmt.Errorf("error parsing product: %s", err))
	}

	return result, nil
}

func (s *Service) Delete(c context.Context, productID int64) error {
	s.logger.Log(c, "product", mylog.SeverityInfo, "Deleting product %d", productID)

	_, err := s.client.Delete(c, fmt.Sprintf("/products/%d", productID))

	return err
}

// UploadImage stores a product image and returns where the server put it.
func (s *Service) UploadImage(c context.Context, fileName string, data []byte) (UploadResponse, error) {
	s.logger.Log(c, "product", mylog.SeverityInfo, "Uploading product image '%s' (%d bytes)", fileName, len(data))

	body, err := s.client.PostMultipart(c, "/files/upload/product", "file", fileName, data)
	if err != nil {
		return UploadResponse{}, err
	}

	result := UploadResponse{}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return UploadResponse{}, myerrors.NewInternalError(fmt.Errorf("error parsing upload response: %s", err))
	}

	return result, nil
}

func (s *Service) Categories(c context.Context) ([]Category, error) {
	body, err := s.client.Get(c, "/categories")
	if err != nil {
		return nil, err
	}

	categories := []Category{}
	err = json.Unmarshal(body, &categories)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error parsing category list: %s", err))
	}

	return categories, nil
}
