/*
DESCRIPTION
  file.go provides reading of configuration variable maps from JSON files.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ReadFile reads a JSON object of variable names to values from path, in the
// form accepted by Update. Numbers and booleans are converted to strings.
func ReadFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	var raw map[string]interface{}
	err = json.Unmarshal(b, &raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	vars := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			vars[k] = v
		case float64:
			vars[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			vars[k] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("unsupported value for %s: %v", k, v)
		}
	}
	return vars, nil
}
