package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Amount is a price or percentage as submitted by the order form. Older
// documents and some clients send numbers as strings, so decoding accepts a
// JSON/BSON number, a numeric string or null. Anything else reads as zero
// rather than failing the whole document.
type Amount float64

// Int truncates toward zero, the way revenue has always been summed.
func (a Amount) Int() int64 {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = 0
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = parseAmount(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		// booleans, objects and arrays are treated like any other non-numeric value
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*a = 0
		return nil
	case bsontype.Double:
		var v float64
		if err := bson.UnmarshalValue(t, data, &v); err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	case bsontype.Int32:
		var v int32
		if err := bson.UnmarshalValue(t, data, &v); err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	case bsontype.Int64:
		var v int64
		if err := bson.UnmarshalValue(t, data, &v); err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	case bsontype.String:
		var v string
		if err := bson.UnmarshalValue(t, data, &v); err != nil {
			return err
		}
		*a = parseAmount(v)
		return nil
	default:
		*a = 0
		return nil
	}
}

// MarshalBSONValue always stores a double so mixed legacy values converge.
func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(float64(a))
}

func (a Amount) String() string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}

func parseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Amount(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Amount(f)
	}
	return 0
}
