package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

func encodeJSONColumn(dst *datatypes.JSON, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode json column: %w", err)
	}
	*dst = datatypes.JSON(raw)
	return nil
}
