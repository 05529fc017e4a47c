package checkout

import (
	"regexp"
	"strings"

	"feria-storefront/models"
)

// documentNumberRe accepts 6 to 10 digits with an optional trailing
// check-digit suffix (e.g. "900123456-7").
var documentNumberRe = regexp.MustCompile(`^\d{6,10}(-\d)?$`)

// ValidateDocumentNumber checks the local document-number format. The value
// is never sent to the server when it fails.
func ValidateDocumentNumber(doc string) bool {
	return documentNumberRe.MatchString(strings.TrimSpace(doc))
}

// ValidateBuyer runs the local step-1 preconditions and returns field-level
// errors keyed by field name. An empty map means the form may be submitted.
func ValidateBuyer(buyer models.Buyer) map[string]string {
	errs := make(map[string]string)

	required := map[string]string{
		"first_name":      buyer.FirstName,
		"last_name":       buyer.LastName,
		"email":           buyer.Email,
		"phone":           buyer.Phone,
		"document_number": buyer.DocumentNumber,
		"address":         buyer.Address,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = "required"
		}
	}

	if strings.TrimSpace(buyer.City) == "" {
		errs["city"] = "select a city"
	}

	if _, ok := errs["document_number"]; !ok && !ValidateDocumentNumber(buyer.DocumentNumber) {
		errs["document_number"] = "must be 6-10 digits with an optional check digit"
	}

	return errs
}
