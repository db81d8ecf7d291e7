package reflectx

import (
	"reflect"

	"github.com/yungbote/temporalguard/contract"
)

// Classify reports how a method relates to its owner: a nil owner means a
// package level function, a reflect.Type or typed nil pointer means the
// method is taken from the type itself, and anything else is an instance
// method.
func Classify(owner any) contract.Binding {
	if owner == nil {
		return contract.BindingFree
	}
	if _, ok := owner.(reflect.Type); ok {
		return contract.BindingUnbound
	}
	v := reflect.ValueOf(owner)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return contract.BindingUnbound
	}
	return contract.BindingBound
}
