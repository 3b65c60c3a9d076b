package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/keen-softap/src/internal/address"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if c.General == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "general",
			Message:   "configuration must contain 'general' section",
		})
		return validationErrors
	}

	if err := validate.Struct(c.General); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "general", "")...)
	}

	if c.General.EnableNAT && c.General.UpstreamInterface == "" {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "general.upstream_interface",
			Message:   "is required when enable_nat is set",
		})
	}
	if c.General.UpstreamInterface != "" && c.General.UpstreamInterface == c.General.Interface {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "general.upstream_interface",
			Message:   "must differ from general.interface",
		})
	}

	if c.API != nil {
		if err := validate.Struct(c.API); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, "api", "")...)
		}
	}

	if c.Hotspot != nil {
		validationErrors = append(validationErrors, ValidateHotspot(c.Hotspot)...)
	}

	validationErrors = append(validationErrors, validateBlockList(c.BlockList)...)

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

// ValidateHotspot checks a hotspot configuration before it is stored or
// pushed to the radio. Channel support is checked separately against the
// radio's channels table.
func ValidateHotspot(h *HotspotConfig) ValidationErrors {
	var validationErrors ValidationErrors

	if err := validate.Struct(h); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "hotspot", "")...)
	}

	if h.SecurityType != SecurityOpen && h.SecurityType != "" && h.PresharedKey == "" {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "hotspot.preshared_key",
			Message:   fmt.Sprintf("is required for security type %s", h.SecurityType),
		})
	}

	return validationErrors
}

func validateBlockList(devices []*BlockedDevice) ValidationErrors {
	var validationErrors ValidationErrors
	seen := make(map[string]bool)

	for i, device := range devices {
		itemName := device.MAC
		if device.DeviceName != "" {
			itemName = device.DeviceName
		}

		if err := validate.Struct(device); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("blocklist.%d", i), itemName)...)
			continue
		}

		mac := address.ParseMAC(device.MAC).String()
		if seen[mac] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fmt.Sprintf("blocklist.%d.mac", i),
				Message:   fmt.Sprintf("duplicate MAC address: %s", mac),
			})
		}
		seen[mac] = true
	}

	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + e.Field()
				} else {
					fieldPath = e.Field()
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
