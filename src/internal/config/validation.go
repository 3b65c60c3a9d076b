package config

import (
	"fmt"
	"net"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/keen-softap/src/internal/address"
	"github.com/maksimkurb/keen-softap/src/internal/networking"
)

var countryCodeRegexp = regexp.MustCompile(`^([A-Z]{2}|00)$`)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", e.Param())
		}
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", e.Param())
		}
		return fmt.Sprintf("must be <= %s", e.Param())
	case "printascii":
		return "must contain printable ASCII characters only"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "ifname":
		return "must be a valid interface name (1-15 characters, no spaces or slashes)"
	case "mac_address":
		return "must be a MAC address in aa:bb:cc:dd:ee:ff form"
	case "country_code":
		return "must be a two-letter upper-case ISO 3166-1 code"
	case "hotspot_gateway":
		return fmt.Sprintf("must be an IPv4 address inside %s", address.HotspotIPv4Space)
	case "hostport_or_empty":
		return "must be in format 'host:port' or empty"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	ItemName  string // For blocklist entries: the MAC or device name
	FieldPath string // Dot-notation field path (e.g., "hotspot.channel")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		if err.ItemName != "" {
			sb.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, err.ItemName, err.FieldPath, err.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
		}
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("ifname", validateInterfaceName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("mac_address", validateMACAddress); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("country_code", validateCountryCode); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("hotspot_gateway", validateHotspotGateway); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("hostport_or_empty", validateHostPortOrEmpty); err != nil {
		panic(err)
	}

	// Report field names as they appear in the TOML file
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// IsValidCountryCode reports whether code is a two-letter regulatory domain.
func IsValidCountryCode(code string) bool {
	return countryCodeRegexp.MatchString(code)
}

func validateInterfaceName(fl validator.FieldLevel) bool {
	return networking.IsValidInterfaceName(fl.Field().String())
}

func validateMACAddress(fl validator.FieldLevel) bool {
	return address.ParseMAC(fl.Field().String()).IsValid()
}

func validateCountryCode(fl validator.FieldLevel) bool {
	return IsValidCountryCode(fl.Field().String())
}

func validateHotspotGateway(fl validator.FieldLevel) bool {
	return address.NewIPv4(fl.Field().String(), 24).InHotspotSpace()
}

// Custom validator: host:port format or empty
func validateHostPortOrEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, _, err := net.SplitHostPort(value)
	return err == nil
}
