package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructValid(t *testing.T) {
	type vendor struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}
	assert.Nil(t, NewValidator().ValidateStruct(vendor{Name: "Acme", Email: "sales@acme.test"}))
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	type decision struct {
		ApprovedBy string `json:"approvedBy" validate:"required"`
		Currency   string `json:"currency,omitempty" validate:"oneof=USD EUR"`
		Quantity   int    `json:"quantity" validate:"gte=1"`
		Internal   string `json:"-" validate:"required"`
	}

	errs := NewValidator().ValidateStruct(decision{Currency: "RUB", Internal: "x"})
	require.Len(t, errs, 3)
	assert.Equal(t, "Approved By is required", errs["approvedBy"])
	assert.Equal(t, "Currency must be one of the following: USD EUR", errs["currency"])
	assert.Equal(t, "Quantity must be greater than or equal to 1", errs["quantity"])
}

func TestPrettifyFieldName(t *testing.T) {
	assert.Equal(t, "Delivery Time", prettifyFieldName("deliveryTime"))
	assert.Equal(t, "Requester Name", prettifyFieldName("requester_name"))
	assert.Equal(t, "Title", prettifyFieldName("title"))
}

func TestCheck(t *testing.T) {
	type bid struct {
		DeliveryTime int `json:"deliveryTime" validate:"gte=1"`
	}
	err := Check(NewValidator(), bid{})
	require.Error(t, err)
	var vErr *Error
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Delivery Time must be greater than or equal to 1", vErr.Fields["deliveryTime"])
	assert.Equal(t, "Delivery Time must be greater than or equal to 1", err.Error())

	assert.NoError(t, Check(NewValidator(), bid{DeliveryTime: 3}))
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "Fast & cheap", StripMarkup(" <b>Fast</b> & cheap "))
	assert.Equal(t, "", StripMarkup("<script>alert(1)</script>"))
}
