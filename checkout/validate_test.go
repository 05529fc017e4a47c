package checkout

import (
	"testing"

	"feria-storefront/models"
)

func TestValidateDocumentNumber(t *testing.T) {
	valid := []string{"123456", "1234567890", "900123456-7", " 123456 "}
	for _, doc := range valid {
		if !ValidateDocumentNumber(doc) {
			t.Fatalf("expected %q to be valid", doc)
		}
	}

	invalid := []string{"", "12345", "12345678901", "abc123", "123456-", "123456-78", "12 3456"}
	for _, doc := range invalid {
		if ValidateDocumentNumber(doc) {
			t.Fatalf("expected %q to be invalid", doc)
		}
	}
}

func validBuyer() models.Buyer {
	return models.Buyer{
		FirstName:      "Ana",
		LastName:       "Gómez",
		Email:          "ana@example.com",
		Phone:          "3001234567",
		DocumentNumber: "1020304050",
		Address:        "Cra 7 # 45-10",
		City:           "Bogotá",
	}
}

func TestValidateBuyer(t *testing.T) {
	if errs := ValidateBuyer(validBuyer()); len(errs) != 0 {
		t.Fatalf("expected valid buyer, got %+v", errs)
	}

	b := validBuyer()
	b.City = ""
	b.DocumentNumber = "12"
	errs := ValidateBuyer(b)
	if _, ok := errs["city"]; !ok {
		t.Fatalf("expected city error, got %+v", errs)
	}
	if _, ok := errs["document_number"]; !ok {
		t.Fatalf("expected document_number error, got %+v", errs)
	}
}
