package contract

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Rule checks one method of one definition and returns zero or more
// violation messages. Rules are pure; they never mutate the descriptor.
type Rule struct {
	Name  string
	Check func(d *Definition, name string, m *Method) []string
}

// Classifier decides type-family membership for the serializability rules.
// The library default lives in the payload package; the validator itself
// never serializes anything.
type Classifier interface {
	// IsModel reports whether the type belongs to the structured model
	// family the converter encodes field-wise.
	IsModel(t reflect.Type) bool
	// IsRawConflict reports whether the type also belongs to the opaque
	// self-marshaling family. A type in both families is ambiguous.
	IsRawConflict(t reflect.Type) bool
}

// OptsAttr returns the attribute name carrying a method's default call
// options, e.g. OptsAttr("FetchRecord") == "OptsFetchRecord".
func OptsAttr(method string) string {
	return "Opts" + method
}

// DefaultOptionsRule requires the definition to carry a call-option map for
// the method under OptsAttr(name), with every required key present and
// non-nil. The method author owns these values so callers do not have to
// guess timeouts and retry behavior.
func DefaultOptionsRule(required []string) Rule {
	return Rule{
		Name: "default_options",
		Check: func(d *Definition, name string, _ *Method) []string {
			attr := OptsAttr(name)
			raw, ok := d.Attributes[attr]
			if !ok || raw == nil {
				return []string{fmt.Sprintf("no default call options; add a %s attribute", attr)}
			}
			v := reflect.ValueOf(raw)
			if v.Kind() == reflect.Map && v.IsNil() {
				return []string{fmt.Sprintf("no default call options; add a %s attribute", attr)}
			}
			if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
				return []string{fmt.Sprintf("%s must be a map of option keys", attr)}
			}
			var missing []string
			for _, key := range required {
				mv := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
				if nilOptionValue(mv) {
					missing = append(missing, key)
				}
			}
			if len(missing) > 0 {
				sort.Strings(missing)
				return []string{fmt.Sprintf("%s is missing required option keys: %s", attr, strings.Join(missing, ", "))}
			}
			return nil
		},
	}
}

// SingleInputRule requires exactly one caller-supplied argument. Keeping the
// signature to one structured argument lets authors add fields without
// breaking existing call sites.
func SingleInputRule() Rule {
	return Rule{
		Name: "single_input",
		Check: func(_ *Definition, _ string, m *Method) []string {
			switch n := len(m.CallerParams()); {
			case n == 0:
				return []string{"takes no input; exactly one argument is required"}
			case n > 1:
				return []string{fmt.Sprintf("takes %d inputs; exactly one argument is required", n)}
			}
			return nil
		},
	}
}

// InputModelRule requires the single caller argument to be in the model
// family and not also in the raw-marshal family.
func InputModelRule(c Classifier) Rule {
	return Rule{
		Name: "input_model",
		Check: func(_ *Definition, _ string, m *Method) []string {
			params := m.CallerParams()
			if len(params) == 0 {
				return []string{"no input to inspect; expected one model argument"}
			}
			p := params[0]
			if p.Type == nil {
				return []string{fmt.Sprintf("input %q has no declared type", p.Name)}
			}
			return familyViolations(c, p.Type, fmt.Sprintf("input %q", p.Name))
		},
	}
}

// OutputModelRule applies the same family predicate to the return value.
func OutputModelRule(c Classifier) Rule {
	return Rule{
		Name: "output_model",
		Check: func(_ *Definition, _ string, m *Method) []string {
			if m.Return == nil {
				return []string{"declares no return value; one model value is required"}
			}
			return familyViolations(c, m.Return, "return value")
		},
	}
}

// nilOptionValue treats absent keys, nil interfaces, and typed nil values
// (a nil *RetryPolicy, say) all as unset.
func nilOptionValue(mv reflect.Value) bool {
	if !mv.IsValid() {
		return true
	}
	if mv.Kind() == reflect.Interface {
		if mv.IsNil() {
			return true
		}
		mv = mv.Elem()
	}
	switch mv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return mv.IsNil()
	}
	return false
}

func familyViolations(c Classifier, t reflect.Type, subject string) []string {
	if c == nil {
		return []string{fmt.Sprintf("%s cannot be classified: no classifier configured", subject)}
	}
	if !c.IsModel(t) {
		return []string{fmt.Sprintf("%s (%s) is not in the model family", subject, t)}
	}
	if c.IsRawConflict(t) {
		return []string{fmt.Sprintf("%s (%s) is in both the model and raw-marshal families; the converter cannot disambiguate", subject, t)}
	}
	return nil
}
