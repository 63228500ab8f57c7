package dto

import (
	"ad-agent-api/domain"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// GenerateAdRequest keeps product as raw JSON so that a non-string value counts as missing
// instead of failing the bind.
type GenerateAdRequest struct {
	Product json.RawMessage `json:"product"`
}

// ParseGenerateAdRequest never fails on malformed input: anything unparsable is treated as an empty body.
func ParseGenerateAdRequest(body []byte) GenerateAdRequest {
	var req GenerateAdRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return GenerateAdRequest{}
	}
	return req
}

// ProductName returns the trimmed product name or the validation error to answer with.
func (r GenerateAdRequest) ProductName() (string, *domain.ValidationError) {
	var product string
	if len(r.Product) == 0 || json.Unmarshal(r.Product, &product) != nil {
		return "", domain.NewProductRequiredError()
	}

	product = strings.TrimSpace(product)
	if product == "" {
		return "", domain.NewProductRequiredError()
	}
	if utf8.RuneCountInString(product) > domain.MaxProductNameLength {
		return "", domain.NewProductTooLongError()
	}
	return product, nil
}
