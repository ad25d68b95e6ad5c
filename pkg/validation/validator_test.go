package validation

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/business-card-api/pkg/apperror"
)

type addressPayload struct {
	City        string `json:"city" binding:"required,min=2"`
	HouseNumber int    `json:"houseNumber" binding:"required,min=1"`
}

type payload struct {
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,strongpwd"`
	Phone    string         `json:"phone" binding:"required,phone"`
	Address  addressPayload `json:"address"`
}

func valid() payload {
	return payload{
		Email:    "jo@x.com",
		Password: "Abcd1234!",
		Phone:    "050-0000000",
		Address:  addressPayload{City: "Haifa", HouseNumber: 1},
	}
}

func validate(p payload) *apperror.Error {
	Init()
	return FirstError(binding.Validator.ValidateStruct(&p))
}

func TestValidPayload(t *testing.T) {
	Init()
	assert.NoError(t, binding.Validator.ValidateStruct(valid()))
}

func TestFirstErrorReportsOnlyFirstField(t *testing.T) {
	err := validate(payload{})
	require.NotNil(t, err)
	assert.Equal(t, apperror.KindValidation, err.Kind)
	assert.Equal(t, "Validation Error: email is required", err.Message)
}

func TestNestedFieldPath(t *testing.T) {
	p := valid()
	p.Address.HouseNumber = 0
	assert.Equal(t, "Validation Error: address.houseNumber is required", validate(p).Message)

	p = valid()
	p.Address.City = "X"
	assert.Equal(t, "Validation Error: address.city must be at least 2 characters long", validate(p).Message)
}

func TestPasswordRule(t *testing.T) {
	for _, pwd := range []string{"short1!", "abcd1234!", "ABCD1234!", "Abcdefgh!", "Abcd12345", "Abcd1234!Abcd1234!Abc"} {
		p := valid()
		p.Password = pwd
		err := validate(p)
		if assert.NotNil(t, err, pwd) {
			assert.Contains(t, err.Message, "password must be 7-20 characters", pwd)
		}
	}
	for _, pwd := range []string{"Abcd1234!", "Zz9-zzzz", "Aa1@Aa1@Aa1@Aa1@Aa1@"} {
		p := valid()
		p.Password = pwd
		assert.Nil(t, validate(p), pwd)
	}
}

func TestPhoneRule(t *testing.T) {
	for _, phone := range []string{"0500000000", "050-0000000", "03 123 4567", "050-000 0000"} {
		p := valid()
		p.Phone = phone
		assert.Nil(t, validate(p), phone)
	}
	for _, phone := range []string{"500000000", "050-00000", "+972500000000", "050-0000000x"} {
		p := valid()
		p.Phone = phone
		err := validate(p)
		if assert.NotNil(t, err, phone) {
			assert.Equal(t, "Validation Error: phone must be a valid phone number", err.Message)
		}
	}
}

func TestEmailRule(t *testing.T) {
	p := valid()
	p.Email = "not-an-email"
	assert.Equal(t, "Validation Error: email must be a valid email", validate(p).Message)
}

func TestFirstErrorDecodingFailures(t *testing.T) {
	assert.Nil(t, FirstError(nil))
	assert.Equal(t, "Validation Error: payload is required", FirstError(io.EOF).Message)

	var dst payload
	err := json.Unmarshal([]byte(`{"email":`), &dst)
	assert.Equal(t, "Validation Error: payload invalid json", FirstError(err).Message)

	err = json.Unmarshal([]byte(`{"address":{"houseNumber":"three"}}`), &dst)
	assert.Equal(t, "Validation Error: address.houseNumber must be of type number", FirstError(err).Message)

	assert.Equal(t, "Validation Error: invalid payload", FirstError(errors.New("weird")).Message)
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "name.first", FieldPath("registerRequest.name.first"))
	assert.Equal(t, "email", FieldPath("email"))
}
