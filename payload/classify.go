// Package payload defines the wire families the validator reasons about
// and the data converter that enforces them. A value is serializable as a
// structured model when it is a named struct the JSON leg can encode
// field-wise; types that self-marshal belong to the raw family instead,
// and a type in both families is ambiguous.
package payload

import (
	"encoding"
	"encoding/json"
	"reflect"

	"github.com/yungbote/temporalguard/contract"
)

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

type familyClassifier struct{}

// Models returns the default classifier used by the built-in policies.
func Models() contract.Classifier { return familyClassifier{} }

func (familyClassifier) IsModel(t reflect.Type) bool {
	t = deref(t)
	if t == nil {
		return false
	}
	return t.Kind() == reflect.Struct && t.Name() != ""
}

func (familyClassifier) IsRawConflict(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if marshalsItself(t) {
		return true
	}
	// Pointer-receiver marshalers still hijack encoding for the value type.
	if t.Kind() != reflect.Pointer {
		return marshalsItself(reflect.PointerTo(t))
	}
	return false
}

func marshalsItself(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType)
}

func deref(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
