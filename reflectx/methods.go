package reflectx

import (
	"reflect"

	"github.com/yungbote/temporalguard/contract"
	"github.com/yungbote/temporalguard/defn"
)

// BoundMethod is a method value captured from a live instance, ready to
// hand to a worker registration call.
type BoundMethod struct {
	Name string
	Fn   any
}

// MarkedMethods returns the bound method values of obj carrying tag, in
// method enumeration order. Types and typed nil pointers have no instance
// to bind to, so they yield nothing.
func MarkedMethods(obj any, tag contract.Tag) []BoundMethod {
	t, pv, bound, err := normalize(obj)
	if err != nil || !bound {
		return nil
	}

	pt := pv.Type()
	var out []BoundMethod
	for i := 0; i < pt.NumMethod(); i++ {
		name := pt.Method(i).Name
		if !defn.Marks(t, name).Has(tag) {
			continue
		}
		out = append(out, BoundMethod{Name: name, Fn: pv.Method(i).Interface()})
	}
	return out
}

// Marked reports whether obj has at least one method carrying tag. Unlike
// MarkedMethods it works for types and typed nils too.
func Marked(target any, tag contract.Tag) bool {
	t, _, _, err := normalize(target)
	if err != nil {
		return false
	}
	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		if defn.Marks(t, pt.Method(i).Name).Has(tag) {
			return true
		}
	}
	return false
}
