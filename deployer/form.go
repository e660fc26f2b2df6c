package deployer

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sinder-app/sinder/internal/util"
	"math/big"
	"strings"
)

// MinPriceEth is the smallest price the form accepts.
const MinPriceEth = "0.000001"

// Form is the input of a sin deployment.
type Form struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	PriceEth    string `validate:"required,numeric,min_ether=0.000001"`
	Active      bool
}

// NewForm returns an empty form with Active set.
func NewForm() Form {
	return Form{Active: true}
}

var validate = func() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("min_ether", func(fl validator.FieldLevel) bool {
		price, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return price.GreaterThanOrEqual(decimal.RequireFromString(fl.Param()))
	})
	return v
}()

// Validate trims the text fields and checks them.
func (f *Form) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.PriceEth = strings.TrimSpace(f.PriceEth)
	if err := validate.Struct(f); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return err
		}
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, fieldMessage(e))
		}
		return fmt.Errorf("invalid sin: %s", strings.Join(msgs, ", "))
	}
	return nil
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(e.Field()))
	case "numeric":
		return "price must be a number"
	case "min_ether":
		return fmt.Sprintf("price must be at least %s ETH", e.Param())
	}
	return fmt.Sprintf("%s failed %s", e.Field(), e.Tag())
}

// PriceWei converts PriceEth to wei, flooring sub-wei fractions.
func (f *Form) PriceWei() (*big.Int, error) {
	return util.ParseEther(f.PriceEth)
}
