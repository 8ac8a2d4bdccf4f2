package services

import (
	"fmt"
	"legal_office_go/models"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Request number prefixes
const (
	OpinionNumberPrefix = "OP"
	CallNumberPrefix    = "CR"
	InvoiceNumberPrefix = "INV"
)

// RequestNumberComponents contains the parsed components of a request number
// Format: {PREFIX}-{YEAR}-{SEQUENCE} (e.g. OP-2026-00042)
type RequestNumberComponents struct {
	Prefix   string
	Year     int
	Sequence int
}

// BuildRequestNumber constructs a request number from its components
func BuildRequestNumber(prefix string, year, sequence int) string {
	if year == 0 {
		year = time.Now().Year()
	}
	return fmt.Sprintf("%s-%04d-%05d", strings.ToUpper(strings.TrimSpace(prefix)), year, sequence)
}

// ParseRequestNumber parses a request number string into its components
func ParseRequestNumber(number string) (*RequestNumberComponents, error) {
	number = strings.TrimSpace(number)
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return nil, fmt.Errorf("request number must have 3 dash-separated parts, got %q", number)
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 {
		return nil, fmt.Errorf("request number year must be 4 digits, got %q", parts[1])
	}

	sequence, err := strconv.Atoi(parts[2])
	if err != nil || len(parts[2]) != 5 {
		return nil, fmt.Errorf("request number sequence must be 5 digits, got %q", parts[2])
	}

	return &RequestNumberComponents{
		Prefix:   parts[0],
		Year:     year,
		Sequence: sequence,
	}, nil
}

// nextRequestNumber finds the highest sequence for prefix/year in the given
// column and returns the next number in line
func nextRequestNumber(db *gorm.DB, model interface{}, column, prefix string) (string, error) {
	currentYear := time.Now().Year()
	like := fmt.Sprintf("%s-%04d-", prefix, currentYear)

	var maxNumber string
	err := db.Model(model).
		Where(column+" LIKE ?", like+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &maxNumber).Error
	if err != nil {
		return "", fmt.Errorf("failed to query max request number: %w", err)
	}

	sequence := 1
	if maxNumber != "" {
		components, err := ParseRequestNumber(maxNumber)
		if err == nil {
			sequence = components.Sequence + 1
		}
	}

	return BuildRequestNumber(prefix, currentYear, sequence), nil
}

// NextOpinionNumber generates the next legal opinion request number
func NextOpinionNumber(db *gorm.DB) (string, error) {
	return nextRequestNumber(db, &models.LegalOpinionRequest{}, "opinion_number", OpinionNumberPrefix)
}

// NextCallRequestNumber generates the next call request number
func NextCallRequestNumber(db *gorm.DB) (string, error) {
	return nextRequestNumber(db, &models.CallRequest{}, "request_number", CallNumberPrefix)
}

// NextInvoiceNumber generates the next membership invoice number
func NextInvoiceNumber(db *gorm.DB) (string, error) {
	return nextRequestNumber(db, &models.MembershipInvoice{}, "invoice_number", InvoiceNumberPrefix)
}
