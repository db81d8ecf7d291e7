package payload

import (
	"reflect"
	"testing"

	"go.temporal.io/sdk/converter"
)

type document struct {
	Title string
	Tags  map[string]int
}

func TestDataConverter_JSONLegIsCompactAndUnescaped(t *testing.T) {
	dc := DataConverter()
	p, err := dc.ToPayload(document{Title: "a<b", Tags: map[string]int{"z": 1, "a": 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := string(p.Metadata[converter.MetadataEncoding]); got != converter.MetadataEncodingJSON {
		t.Fatalf("unexpected encoding: %q", got)
	}
	want := `{"Title":"a<b","Tags":{"a":2,"z":1}}`
	if string(p.Data) != want {
		t.Fatalf("unexpected payload bytes: %q", p.Data)
	}
	if got := dc.ToString(p); got != want {
		t.Fatalf("unexpected string form: %q", got)
	}
}

func TestDataConverter_RoundTrip(t *testing.T) {
	dc := DataConverter()
	in := document{Title: "hello", Tags: map[string]int{"n": 3}}
	p, err := dc.ToPayload(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out document
	if err := dc.FromPayload(p, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: %#v", out)
	}
}

func TestDataConverter_ByteSlicesStayRaw(t *testing.T) {
	dc := DataConverter()
	p, err := dc.ToPayload([]byte("raw bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := string(p.Metadata[converter.MetadataEncoding]); got != converter.MetadataEncodingBinary {
		t.Fatalf("unexpected encoding: %q", got)
	}
	if string(p.Data) != "raw bytes" {
		t.Fatalf("unexpected payload bytes: %q", p.Data)
	}
}

func TestDataConverter_EqualValuesProduceEqualBytes(t *testing.T) {
	dc := DataConverter()
	a, err := dc.ToPayload(document{Title: "same", Tags: map[string]int{"x": 1, "y": 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := dc.ToPayload(document{Title: "same", Tags: map[string]int{"y": 2, "x": 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(a.Data) != string(b.Data) {
		t.Fatalf("payloads differ: %q vs %q", a.Data, b.Data)
	}
}
