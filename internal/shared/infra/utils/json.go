package utils

import (
	"encoding/json"
	"fmt"
)

// DecodeData decodifica el campo data de un evento como T. Un payload vacío
// es un error: ningún evento de catálogo viaja sin datos.
func DecodeData[T any](data json.RawMessage) (T, error) {
	var evt T
	if len(data) == 0 {
		return evt, fmt.Errorf("empty event data")
	}
	if err := json.Unmarshal(data, &evt); err != nil {
		return evt, fmt.Errorf("decode %T: %w", evt, err)
	}
	return evt, nil
}
