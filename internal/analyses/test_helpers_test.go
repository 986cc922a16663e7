package analyses

import "encoding/json"

func unmarshal(raw string, v any) error {
	return json.Unmarshal([]byte(raw), v)
}
