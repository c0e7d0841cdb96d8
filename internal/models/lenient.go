// internal/models/lenient.go
package models

import (
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

var (
	flexNumberType = reflect.TypeOf(FlexNumber{})
	subEventType   = reflect.TypeOf(SubEvent{})
)

// decodeLenient разбирает JSON объект в структуру по json тегам.
// Ошибкой считается только битый JSON; поле неожиданного типа остается пустым. // v1.0
func decodeLenient(data []byte, out any) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return nil
	}
	return decodeMap(obj, out)
}

// decodeMap переносит разобранный объект в структуру.
// Ошибки отдельных полей отбрасываются: значение неожиданного типа равно отсутствию. // v1.0
func decodeMap(obj map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(lenientHook),
		TagName:    "json",
		Result:     out,
	})
	if err != nil {
		return err
	}
	_ = decoder.Decode(obj)
	return nil
}

// lenientHook приводит значения выгрузки к типам полей или помечает их отсутствующими // v1.0
func lenientHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch {
	case to == flexNumberType:
		return flexNumberFrom(data), nil

	case to == subEventType:
		obj, ok := data.(map[string]any)
		if !ok {
			return data, nil
		}
		return newSubEvent(obj), nil

	case to.Kind() == reflect.Ptr && to.Elem().Kind() == reflect.Struct:
		// вложенный блок разбирается отдельно, чтобы ошибка в нем не обнуляла весь блок
		obj, ok := data.(map[string]any)
		if !ok {
			return data, nil
		}
		block := reflect.New(to.Elem())
		_ = decodeMap(obj, block.Interface())
		return block.Interface(), nil

	case to.Kind() == reflect.Slice:
		items, ok := data.([]any)
		if !ok {
			// одиночное значение вместо массива: массива нет
			return reflect.Zero(to).Interface(), nil
		}
		if to.Elem().Kind() != reflect.Struct {
			return items, nil
		}
		objects := make([]any, 0, len(items))
		for _, item := range items {
			if _, ok := item.(map[string]any); ok {
				objects = append(objects, item)
			}
		}
		return objects, nil

	case to.Kind() == reflect.Map:
		if _, ok := data.(map[string]any); !ok {
			return reflect.Zero(to).Interface(), nil
		}

	case to.Kind() == reflect.String:
		switch v := data.(type) {
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
	}

	return data, nil
}

// flexNumberFrom строит FlexNumber из значения, разобранного в any // v1.0
func flexNumberFrom(data any) FlexNumber {
	switch v := data.(type) {
	case float64:
		return Num(v)
	case string:
		return parseFlexString(v)
	case FlexNumber:
		return v
	default:
		return FlexNumber{}
	}
}

// subEventFields те же поля, что у SubEvent, без собственного разбора
type subEventFields SubEvent

// newSubEvent разбирает вложенное событие и сохраняет исходный объект // v1.0
func newSubEvent(obj map[string]any) SubEvent {
	var fields subEventFields
	_ = decodeMap(obj, &fields)

	ev := SubEvent(fields)
	ev.Raw = obj
	return ev
}
