package validate

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Gen1023/financial-products/internal/domain"
)

var (
	reID = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

	validate = validator.New()
)

const maxQ = 100

// IDRule describes the accepted product id format to the user.
const IDRule = "Solo letras, números, punto, guion y guion bajo (máx. 64)"

func init() {
	// report fields by their wire/form name
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("productid", func(fl validator.FieldLevel) bool {
		return reID.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, domain.DateOnly(fl.Field().String()))
		return err == nil
	})
}

// FieldErrors maps a field name (id, name, ...) to a user facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for k, v := range fe {
		parts = append(parts, k+": "+v)
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

// Product checks the create/edit rules. It returns nil when p is acceptable.
func Product(p domain.Product) FieldErrors {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es requerido"
	case "min":
		return "Debe tener al menos " + fe.Param() + " caracteres"
	case "max":
		return "Debe tener como máximo " + fe.Param() + " caracteres"
	case "isodate":
		return "Fecha inválida, use AAAA-MM-DD"
	case "productid":
		return IDRule
	default:
		return "Valor inválido"
	}
}

// Q normalizes a search term: trims and caps the length. Any character is
// allowed since the term is only matched as a substring.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > maxQ {
		s = string(r[:maxQ])
	}
	return s, true
}

// Page parses a page number; anything unusable becomes 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// PageSize parses a page size. Membership in the offered sizes is checked by
// the listing state.
func PageSize(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ID validates a product identifier taken from a route.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}
