package product

import (
	"github.com/shopspring/decimal"
)

// Product mirrors the catalog resource exposed by the backend. Timestamps
// arrive in the backend's local-datetime format and are passed through
// verbatim.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`

	MainCategoryID    int64  `json:"mainCategoryId,omitempty"`
	MainCategoryName  string `json:"mainCategoryName,omitempty"`
	SubCategoryID     int64  `json:"subCategoryId,omitempty"`
	SubCategoryName   string `json:"subCategoryName,omitempty"`
	ThirdCategoryID   int64  `json:"thirdCategoryId,omitempty"`
	ThirdCategoryName string `json:"thirdCategoryName,omitempty"`
}

// Page is the server's paged-response envelope.
type Page struct {
	Content       []Product `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}

// Category is a three-level tree: category, sub-category, third-level
// category.
type Category struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	SubCategories []SubCategory `json:"subCategories,omitempty"`
}

type SubCategory struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ThirdCategories []ThirdCategory `json:"thirdCategories,omitempty"`
}

type ThirdCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UploadResponse describes a stored image. Size comes back as a string.
type UploadResponse struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType"`
	Size     string `json:"size"`
	Message  string `json:"message,omitempty"`
}

type pageParams struct {
	Page int `form:"page"`
	Size int `form:"size"`
}
