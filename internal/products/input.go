package product

import (
	"io"
	"reflect"
	"strings"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("has_text", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(StripTags(fl.Field().String())) != ""
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(CreateInput)
		if in.Type == enums.ProductTypeOther && strings.TrimSpace(in.NewType) == "" {
			sl.ReportError(in.NewType, "newType", "NewType", "required_if_other", "")
		}
		if !in.Price.IsPositive() {
			sl.ReportError(in.Price, "price", "Price", "positive", "")
		}
	}, CreateInput{})
	return v
}

// Image is an uploaded product picture.
type Image struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CreateInput is the add-product form.
type CreateInput struct {
	Name         string          `json:"name" validate:"required,notblank"`
	Description  string          `json:"description" validate:"required,has_text"`
	Type         string          `json:"type" validate:"required,notblank"`
	NewType      string          `json:"newType"`
	Price        decimal.Decimal `json:"price"`
	ShippingInfo string          `json:"shippingInfo" validate:"required,notblank"`
	Image        *Image          `json:"image" validate:"required"`
}

var fieldMessages = map[string]string{
	"name":         "Name is required",
	"description":  "Description is required",
	"type":         "Type is required",
	"newType":      "New type is required",
	"image":        "Image is required",
	"price":        "Price must be a positive number",
	"shippingInfo": "Shipping information is required",
}

// Validate returns a field to message map, empty when the input is acceptable.
func (in CreateInput) Validate() map[string]string {
	errs := map[string]string{}
	err := validate.Struct(in)
	if err == nil {
		return errs
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_"] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		if msg, ok := fieldMessages[fe.Field()]; ok {
			errs[fe.Field()] = msg
			continue
		}
		errs[fe.Field()] = "is invalid"
	}
	return errs
}

// ResolvedType is the type stored on the product: the new type when "Other" was picked.
func (in CreateInput) ResolvedType() string {
	if in.Type == enums.ProductTypeOther {
		return strings.TrimSpace(in.NewType)
	}
	return strings.TrimSpace(in.Type)
}
