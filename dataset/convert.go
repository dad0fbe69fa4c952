package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// CellOf converts an arbitrary decoded value into a Cell. Numeric types of
// any width become numbers, booleans become the text "true"/"false", and
// nested structures are stored as their JSON text. Strings stay text even
// when they look numeric; the evaluator decides numeric coercion later.
func CellOf(v interface{}) Cell {
	switch val := v.(type) {
	case nil:
		return Null()
	case Cell:
		return val
	case string:
		return Text(val)
	case []byte:
		return Text(string(val))
	case bool:
		if val {
			return Text("true")
		}
		return Text("false")
	case float32, float64, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return Number(cast.ToFloat64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Text(val.String())
		}
		return Number(f)
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(val)
		if err != nil {
			return Text(fmt.Sprintf("%v", val))
		}
		return Text(string(b))
	default:
		if f, err := cast.ToFloat64E(val); err == nil {
			return Number(f)
		}
		if s, err := cast.ToStringE(val); err == nil {
			return Text(s)
		}
		return Text(fmt.Sprintf("%v", val))
	}
}
