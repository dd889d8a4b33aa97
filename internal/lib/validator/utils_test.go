package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
	ImdbID   string `validate:"omitempty,imdbid"`
}

func TestValidateStruct(t *testing.T) {
	v := New()
	errs := ValidateStruct(v, signupForm{Username: "ab", Email: "nope", Password: "weak", ImdbID: "123"})
	assert.Equal(t, "The minimum length is 3", errs["username"])
	assert.Equal(t, "Value must be a valid email address", errs["email"])
	assert.Contains(t, errs["password"], "at least 8 characters")
	assert.Contains(t, errs, "imdb_id")

	errs = ValidateStruct(v, &signupForm{Username: "alice42", Email: "alice@example.com", Password: "Sup3r$ecret", ImdbID: "tt0111161"})
	assert.Empty(t, errs)
}

func TestIsStrongPassword(t *testing.T) {
	testCases := map[string]bool{
		"Sup3r$ecret":   true,
		"short1!A":      true,
		"sh0rt!A":       false,
		"nouppercase1!": false,
		"NoDigits!!":    false,
		"NoSymbols12":   false,
	}
	for password, expected := range testCases {
		assert.Equal(t, expected, IsStrongPassword(password), password)
	}
}

func TestCamelToSnake(t *testing.T) {
	assert.Equal(t, "imdb_id", camelToSnake("ImdbID"))
	assert.Equal(t, "next_result", camelToSnake("NextResult"))
	assert.Equal(t, "http_server", camelToSnake("HTTPServer"))
}
