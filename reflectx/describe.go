// Package reflectx synthesizes contract descriptors from live Go types.
// It is the bridge between the reflect world (struct types, method sets,
// embedded fields) and the contract world (definitions, methods, params).
package reflectx

import (
	"fmt"
	"reflect"

	"github.com/yungbote/temporalguard/contract"
	"github.com/yungbote/temporalguard/defn"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Describe builds a contract descriptor for target. Target may be a struct
// instance, a pointer to one, a typed nil pointer or a reflect.Type; the
// last two describe the type itself, so methods come out unbound and
// attributes empty. Instances yield bound methods and a snapshot of every
// exported field, ancestor fields included.
func Describe(target any) (*contract.Definition, error) {
	t, pv, bound, err := normalize(target)
	if err != nil {
		return nil, err
	}
	return &contract.Definition{
		Name:       qualifiedName(t),
		Ancestry:   ancestry(t),
		Methods:    describeMethods(t, bound),
		Attributes: snapshotAttributes(pv, bound),
	}, nil
}

// normalize resolves target to its struct type plus, for live instances,
// an addressable pointer so pointer-receiver methods stay reachable.
func normalize(target any) (reflect.Type, reflect.Value, bool, error) {
	if target == nil {
		return nil, reflect.Value{}, false, fmt.Errorf("reflectx: describe: nil target")
	}
	if t, ok := target.(reflect.Type); ok {
		for t != nil && t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t == nil || t.Kind() != reflect.Struct {
			return nil, reflect.Value{}, false, fmt.Errorf("reflectx: describe: %v is not a struct type", t)
		}
		return t, reflect.Value{}, false, nil
	}

	v := reflect.ValueOf(target)
	switch v.Kind() {
	case reflect.Pointer:
		t := v.Type().Elem()
		if t.Kind() != reflect.Struct {
			return nil, reflect.Value{}, false, fmt.Errorf("reflectx: describe: %v is not a struct type", v.Type())
		}
		if v.IsNil() {
			return t, reflect.Value{}, false, nil
		}
		return t, v, true, nil
	case reflect.Struct:
		pv := reflect.New(v.Type())
		pv.Elem().Set(v)
		return v.Type(), pv, true, nil
	default:
		return nil, reflect.Value{}, false, fmt.Errorf("reflectx: describe: %v is not a struct type", v.Type())
	}
}

func describeMethods(t reflect.Type, bound bool) []*contract.Method {
	pt := reflect.PointerTo(t)
	methods := make([]*contract.Method, 0, pt.NumMethod())
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		methods = append(methods, describeMethod(t, m, bound))
	}
	return methods
}

func describeMethod(t reflect.Type, m reflect.Method, bound bool) *contract.Method {
	sig := m.Type

	var params []contract.Param
	if !bound {
		params = append(params, contract.Param{Name: "recv", Type: sig.In(0)})
	}
	for j := 1; j < sig.NumIn(); j++ {
		params = append(params, contract.Param{
			Name: fmt.Sprintf("arg%d", j-1),
			Type: sig.In(j),
		})
	}

	var ret reflect.Type
	hasError := false
	outs := sig.NumOut()
	if outs > 0 && sig.Out(outs-1) == errorType {
		hasError = true
		outs--
	}
	if outs > 0 {
		ret = sig.Out(0)
	}

	binding := contract.BindingUnbound
	if bound {
		binding = contract.BindingBound
	}
	return &contract.Method{
		Name:     m.Name,
		Binding:  binding,
		Params:   params,
		Return:   ret,
		HasError: hasError,
		Markers:  defn.Marks(t, m.Name),
	}
}

// ancestry lists embedded struct ancestors, deepest first, so the chain
// reads root to leaf.
func ancestry(t reflect.Type) []string {
	var chain []string
	seen := map[reflect.Type]bool{t: true}

	var walk func(reflect.Type)
	walk = func(cur reflect.Type) {
		for i := 0; i < cur.NumField(); i++ {
			f := cur.Field(i)
			if !f.Anonymous {
				continue
			}
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() != reflect.Struct || ft.Name() == "" || seen[ft] {
				continue
			}
			seen[ft] = true
			walk(ft)
			chain = append(chain, qualifiedName(ft))
		}
	}
	walk(t)
	return chain
}

// snapshotAttributes copies every exported field of the instance, walking
// exported embedded structs so ancestor declarations surface on the
// descendant. Outer fields shadow embedded ones, matching Go promotion.
func snapshotAttributes(pv reflect.Value, bound bool) map[string]any {
	attrs := map[string]any{}
	if !bound {
		return attrs
	}
	collectFields(pv.Elem(), attrs)
	return attrs
}

func collectFields(v reflect.Value, attrs map[string]any) {
	t := v.Type()
	var embedded []reflect.Value
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		fv := v.Field(i)
		if f.Anonymous {
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				embedded = append(embedded, fv)
				continue
			}
		}
		if _, exists := attrs[f.Name]; !exists {
			attrs[f.Name] = fv.Interface()
		}
	}
	for _, ev := range embedded {
		collectFields(ev, attrs)
	}
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
