package mpesa

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var ErrIncompleteMetadata = errors.New("mpesa: callback metadata incomplete")

// Envelope is the exact wire shape Daraja POSTs to the callback URL.
type Envelope struct {
	Body struct {
		StkCallback Callback `json:"stkCallback"`
	} `json:"Body"`
}

type Callback struct {
	MerchantRequestID string   `json:"MerchantRequestID"`
	CheckoutRequestID string   `json:"CheckoutRequestID"`
	ResultCode        int      `json:"ResultCode"`
	ResultDesc        string   `json:"ResultDesc"`
	CallbackMetadata  Metadata `json:"CallbackMetadata"`
}

type Metadata struct {
	Item []MetadataItem `json:"Item"`
}

// MetadataItem values arrive untyped: amounts and dates as JSON numbers,
// receipt numbers as strings, phone numbers as either.
type MetadataItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

func (c *Callback) Success() bool { return c.ResultCode == 0 }

// Receipt is the validated, strongly-typed form of CallbackMetadata. Parsed
// once at the boundary; nothing downstream touches the Name/Value list.
type Receipt struct {
	Amount          decimal.Decimal
	ReceiptNumber   string
	TransactionDate time.Time
	PhoneNumber     string
}

// Receipt binds and validates the metadata of a successful callback.
func (c *Callback) Receipt() (*Receipt, error) {
	r := &Receipt{}
	for _, it := range c.CallbackMetadata.Item {
		switch it.Name {
		case "Amount":
			d, err := toDecimal(it.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: bad Amount %v", ErrIncompleteMetadata, it.Value)
			}
			r.Amount = d
		case "MpesaReceiptNumber":
			r.ReceiptNumber, _ = it.Value.(string)
		case "TransactionDate":
			t, err := toTransactionDate(it.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: bad TransactionDate %v", ErrIncompleteMetadata, it.Value)
			}
			r.TransactionDate = t
		case "PhoneNumber":
			r.PhoneNumber = toDigits(it.Value)
		}
	}
	if r.ReceiptNumber == "" || !r.Amount.IsPositive() {
		return nil, ErrIncompleteMetadata
	}
	return r, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(x)
	default:
		return decimal.Zero, fmt.Errorf("unsupported type %T", v)
	}
}

// Daraja sends dates as the number yyyymmddhhmmss (EAT local time).
func toTransactionDate(v any) (time.Time, error) {
	return time.Parse("20060102150405", toDigits(v))
}

func toDigits(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', 0, 64)
	case string:
		return x
	default:
		return ""
	}
}

// Ack is the body the callback endpoint returns to the gateway. Always a
// success ack, whatever happened internally, so delivery is not retried
// forever for an event we did understand.
type Ack struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

func AckOK() Ack { return Ack{ResultCode: 0, ResultDesc: "Accepted"} }
