package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONMap is an open key-value map persisted as a jsonb column.
type JSONMap map[string]interface{}

// Value implements driver.Valuer for gorm.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for gorm.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return errors.New("invalid jsonb payload: " + err.Error())
	}
	return nil
}

// GormDataType tells gorm which column type to use.
func (JSONMap) GormDataType() string {
	return "jsonb"
}
