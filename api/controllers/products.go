package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/audiohive/audiohive-backend/api/responses"
	"github.com/audiohive/audiohive-backend/api/validators"
	"github.com/audiohive/audiohive-backend/internal/products"
	"github.com/audiohive/audiohive-backend/pkg/enums"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
)

type createProductRequest struct {
	Title           string   `json:"title" validate:"required,min=2,max=200"`
	Price           string   `json:"price" validate:"required"`
	SKU             *string  `json:"sku,omitempty"`
	MainCategory    string   `json:"main_category" validate:"required"`
	SubCategory     string   `json:"sub_category" validate:"required"`
	Description     []string `json:"description,omitempty"`
	FeaturesSummary []string `json:"features_summary,omitempty"`
	Images          []string `json:"images,omitempty"`
}

func (req createProductRequest) toCreateInput() (products.CreateProductInput, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return products.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price").
			WithDetails(map[string]any{"price": req.Price})
	}
	if price.IsNegative() {
		return products.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").
			WithDetails(map[string]any{"price": req.Price})
	}

	return products.CreateProductInput{
		Title:           req.Title,
		Price:           price,
		SKU:             req.SKU,
		MainCategory:    enums.MainCategory(req.MainCategory),
		SubCategory:     enums.SubCategory(req.SubCategory),
		Description:     req.Description,
		FeaturesSummary: req.FeaturesSummary,
		Images:          req.Images,
	}, nil
}

// CreateProduct handles admin product creation.
func CreateProduct(svc products.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		input, err := body.toCreateInput()
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"product": product})
	}
}

// ListProducts is the open catalog listing with filtering, sorting, field
// projection, and pagination straight from the query string.
func ListProducts(svc products.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		list, err := svc.List(r.Context(), r.URL.Query())
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteList(w, len(list), map[string]any{"products": list})
	}
}

// GetProduct returns one product with its review set.
func GetProduct(svc products.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

type updateProductRequest struct {
	Title           *string   `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Price           *string   `json:"price,omitempty"`
	SKU             *string   `json:"sku,omitempty"`
	MainCategory    *string   `json:"main_category,omitempty"`
	SubCategory     *string   `json:"sub_category,omitempty"`
	Description     *[]string `json:"description,omitempty"`
	FeaturesSummary *[]string `json:"features_summary,omitempty"`
	Images          *[]string `json:"images,omitempty"`
}

func (req updateProductRequest) toUpdateInput() (products.UpdateProductInput, error) {
	input := products.UpdateProductInput{
		Title:           req.Title,
		SKU:             req.SKU,
		Description:     req.Description,
		FeaturesSummary: req.FeaturesSummary,
		Images:          req.Images,
	}

	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return products.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price").
				WithDetails(map[string]any{"price": *req.Price})
		}
		if price.IsNegative() {
			return products.UpdateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").
				WithDetails(map[string]any{"price": *req.Price})
		}
		input.Price = &price
	}
	if req.MainCategory != nil {
		category := enums.MainCategory(*req.MainCategory)
		input.MainCategory = &category
	}
	if req.SubCategory != nil {
		category := enums.SubCategory(*req.SubCategory)
		input.SubCategory = &category
	}

	return input, nil
}

func UpdateProduct(svc products.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		input, err := body.toUpdateInput()
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

func DeleteProduct(svc products.Service, ew *responses.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			ew.Write(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			ew.Write(r.Context(), w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
