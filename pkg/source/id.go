package source

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ID is a node key that decodes from numbers and strings alike.
//
// Stores disagree on key types: a JSON document may use 1 or "home", an
// SQLite column may hold INTEGER or TEXT, a Mongo document may use an
// ObjectID. ID normalises all of them to their decimal or hex string form so
// keys from one collection always compare correctly. The zero value (and
// any null) is the empty string, the conventional root marker.
type ID string

// String returns the key as a string.
func (id ID) String() string { return string(id) }

// IsZero reports whether id is the empty root marker.
func (id ID) IsZero() bool { return id == "" }

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %s", data)
		}
		*id = ID(n.String())
		return nil
	}
}

// UnmarshalTOML implements toml.Unmarshaler.
func (id *ID) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		*id = ID(x)
	case int64:
		*id = ID(strconv.FormatInt(x, 10))
	case float64:
		*id = ID(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		return fmt.Errorf("id must be a string or integer, got %T", v)
	}
	return nil
}

// Scan implements sql.Scanner. NULL scans to the zero ID.
func (id *ID) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		*id = ""
	case int64:
		*id = ID(strconv.FormatInt(x, 10))
	case float64:
		*id = ID(strconv.FormatFloat(x, 'f', -1, 64))
	case string:
		*id = ID(x)
	case []byte:
		*id = ID(x)
	default:
		return fmt.Errorf("cannot scan %T into source.ID", src)
	}
	return nil
}

// Value implements driver.Valuer. The zero ID is stored as NULL.
func (id ID) Value() (driver.Value, error) {
	if id == "" {
		return nil, nil
	}
	return string(id), nil
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*id = ""
	case bson.TypeString:
		*id = ID(rv.StringValue())
	case bson.TypeInt32:
		*id = ID(strconv.FormatInt(int64(rv.Int32()), 10))
	case bson.TypeInt64:
		*id = ID(strconv.FormatInt(rv.Int64(), 10))
	case bson.TypeDouble:
		*id = ID(strconv.FormatFloat(rv.Double(), 'f', -1, 64))
	case bson.TypeObjectID:
		*id = ID(rv.ObjectID().Hex())
	default:
		return fmt.Errorf("cannot decode BSON %s into source.ID", t)
	}
	return nil
}

// MarshalBSONValue implements bson.ValueMarshaler. The zero ID is stored as
// null.
func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if id == "" {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(string(id))
}
