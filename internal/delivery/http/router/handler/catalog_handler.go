package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const pictureFormField = "picture"

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// CatalogHandler serves categories, products and product pictures.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler.
func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type listProductsQuery struct {
	Query    string `query:"q"`
	Sort     string `query:"sort"`
	Order    string `query:"order"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

type productRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	FlashSale     bool            `json:"flash_sale"`
	CategoryID    uuid.UUID       `json:"category_id" validate:"required"`
}

type updateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=200"`
	Description   *string          `json:"description"`
	CurrentPrice  *decimal.Decimal `json:"current_price"`
	PreviousPrice *decimal.Decimal `json:"previous_price"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,min=0"`
	FlashSale     *bool            `json:"flash_sale"`
	CategoryID    *uuid.UUID       `json:"category_id"`
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogUC.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toSlice(categories, toCategoryResponse), "")
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	category, err := h.catalogUC.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toCategoryResponse(category), "")
}

func (h *CatalogHandler) ListCategoryProducts(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var query pageQuery
	if err := c.Bind(&query); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed query")
	}

	page, err := h.catalogUC.ListCategoryProducts(c.Request().Context(), id, query.request())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toPage(page, toProductResponse), "")
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.catalogUC.CreateCategory(c.Request().Context(), &usecase.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, toCategoryResponse(category), "Category created")
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.catalogUC.UpdateCategory(c.Request().Context(), id, &usecase.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toCategoryResponse(category), "Category updated")
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogUC.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Category deleted")
}

// ListProducts searches the catalog: ?q=&sort=name|price|created_at&order=asc|desc&page=&page_size=
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	var query listProductsQuery
	if err := c.Bind(&query); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed query")
	}

	page, err := h.catalogUC.ListProducts(c.Request().Context(), &usecase.ListProductsInput{
		Query:    query.Query,
		Sort:     query.Sort,
		Order:    query.Order,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toPage(page, toProductResponse), "")
}

func (h *CatalogHandler) ListFlashSale(c echo.Context) error {
	var query pageQuery
	if err := c.Bind(&query); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed query")
	}

	page, err := h.catalogUC.ListFlashSale(c.Request().Context(), query.request())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toPage(page, toProductResponse), "")
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.catalogUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toProductResponse(product), "")
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	actorID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	previous := req.PreviousPrice
	if previous.IsZero() {
		previous = req.CurrentPrice
	}

	product, err := h.catalogUC.CreateProduct(c.Request().Context(), actorID, &usecase.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		CurrentPrice:  req.CurrentPrice,
		PreviousPrice: previous,
		StockQuantity: req.StockQuantity,
		FlashSale:     req.FlashSale,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, toProductResponse(product), "Product created")
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogUC.UpdateProduct(c.Request().Context(), id, &usecase.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		CurrentPrice:  req.CurrentPrice,
		PreviousPrice: req.PreviousPrice,
		StockQuantity: req.StockQuantity,
		FlashSale:     req.FlashSale,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toProductResponse(product), "Product updated")
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogUC.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted")
}

// UploadPicture accepts a multipart form with the image in the "picture" field.
func (h *CatalogHandler) UploadPicture(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile(pictureFormField)
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(pictureFormField + ": file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(pictureFormField + ": unreadable file")
	}
	defer file.Close()

	product, err := h.catalogUC.UploadPicture(c.Request().Context(), id, &usecase.UploadPictureInput{
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Body:        file,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toProductResponse(product), "Picture uploaded")
}

// ServeMedia streams a stored product picture.
func (h *CatalogHandler) ServeMedia(c echo.Context) error {
	object, err := h.catalogUC.OpenPicture(c.Request().Context(), c.Param("*"))
	if err != nil {
		return err
	}
	defer object.Body.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")

	return c.Stream(http.StatusOK, object.ContentType, object.Body)
}
