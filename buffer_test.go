package trytebuffer

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/trytebuffer/trytes"
)

type recHooks struct {
	mu        sync.Mutex
	fallbacks []string // "field:reason"
	over      [][2]int
	rejected  []string
}

func (h *recHooks) Fallback(field, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fallbacks = append(h.fallbacks, field+":"+reason)
}

func (h *recHooks) OverLimit(length, limit int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.over = append(h.over, [2]int{length, limit})
}

func (h *recHooks) DecodeRejected(field string, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejected = append(h.rejected, field)
}

func mustBuffer(t *testing.T, s Schema, opts Options) *Buffer {
	t.Helper()
	b, err := New(s, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func mustEncode(t *testing.T, b *Buffer, r Record) string {
	t.Helper()
	s, err := b.Encode(r)
	if err != nil {
		t.Fatalf("Encode(%v): %v", r, err)
	}
	return s
}

func mustDecode(t *testing.T, b *Buffer, s string) Record {
	t.Helper()
	r, err := b.Decode(s)
	if err != nil {
		t.Fatalf("Decode(%q): %v", s, err)
	}
	return r
}

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func ints(v ...int64) []any {
	out := make([]any, len(v))
	for i, n := range v {
		out[i] = n
	}
	return out
}

// ==============================
// Reference vectors
// ==============================

func TestEncodeVectors(t *testing.T) {
	cases := []struct {
		name   string
		schema Schema
		in     Record
		want   string
		out    Record // nil => same as in
	}{
		{
			name:   "string",
			schema: Schema{{Name: "name", FieldDescriptor: FieldDescriptor{Type: String}}},
			in:     Record{"name": "Craig"},
			want:   "999JMBFDPCXCVC",
		},
		{
			name: "two strings",
			schema: Schema{
				{Name: "firstName", FieldDescriptor: FieldDescriptor{Type: String}},
				{Name: "lastName", FieldDescriptor: FieldDescriptor{Type: String}},
			},
			in:   Record{"firstName": "Craig", "lastName": "O'Connor"},
			want: "999JMBFDPCXCVC999PYBLAMBCDBDBDCDFD",
		},
		{
			name:   "string array",
			schema: Schema{{Name: "aliases", FieldDescriptor: FieldDescriptor{Type: String, Repeat: true}}},
			in:     Record{"aliases": []any{"Craiggles", "CTO", "CraigO"}},
			want:   "9C999RMBFDPCXCVCVC9DTCGD999FMBCCYB999LMBFDPCXCVCYB",
		},
		{
			name: "int8",
			schema: Schema{
				{Name: "int", FieldDescriptor: FieldDescriptor{Type: Int8}},
				{Name: "intArray", FieldDescriptor: FieldDescriptor{Type: Int8, Repeat: true}},
			},
			in:   Record{"int": int64(127), "intArray": ints(-128, 0, 127)},
			want: "IL9C99DTIL",
		},
		{
			name: "uint8",
			schema: Schema{
				{Name: "uint", FieldDescriptor: FieldDescriptor{Type: Uint8}},
				{Name: "uintArray", FieldDescriptor: FieldDescriptor{Type: Uint8, Repeat: true}},
			},
			in:   Record{"uint": int64(255), "uintArray": ints(0, 100, 255)},
			want: "IL9C99CSIL",
		},
		{
			name: "int16",
			schema: Schema{
				{Name: "int", FieldDescriptor: FieldDescriptor{Type: Int16}},
				{Name: "intArray", FieldDescriptor: FieldDescriptor{Type: Int16, Repeat: true}},
			},
			in:   Record{"int": int64(32767), "intArray": ints(-32768, 0, 32767)},
			want: "CHXF9C9999AQYQCHXF",
		},
		{
			name: "uint16",
			schema: Schema{
				{Name: "uint", FieldDescriptor: FieldDescriptor{Type: Uint16}},
				{Name: "uintArray", FieldDescriptor: FieldDescriptor{Type: Uint16, Repeat: true}},
			},
			in:   Record{"uint": int64(65535), "uintArray": ints(0, 10000, 65535)},
			want: "CHXF9C99999MSJCHXF",
		},
		{
			name: "int32",
			schema: Schema{
				{Name: "int", FieldDescriptor: FieldDescriptor{Type: Int32}},
				{Name: "intArray", FieldDescriptor: FieldDescriptor{Type: Int32, Repeat: true}},
			},
			in:   Record{"int": int64(2147483647), "intArray": ints(-2147483648, 0, 2147483647)},
			want: "KBHSYMU9C9999999ENQWLTKKBHSYMU",
		},
		{
			name: "uint32",
			schema: Schema{
				{Name: "uint", FieldDescriptor: FieldDescriptor{Type: Uint32}},
				{Name: "uintArray", FieldDescriptor: FieldDescriptor{Type: Uint32, Repeat: true}},
			},
			in:   Record{"uint": int64(4294967295), "uintArray": ints(0, 1000000000, 4294967295)},
			want: "KBHSYMU9C9999999BORRGCAKBHSYMU",
		},
		{
			name: "bool",
			schema: Schema{
				{Name: "bool", FieldDescriptor: FieldDescriptor{Type: Bool}},
				{Name: "boolArray", FieldDescriptor: FieldDescriptor{Type: Bool, Repeat: true}},
			},
			in:   Record{"bool": true, "boolArray": []any{false, true, false, false}},
			want: "A9D9A99",
		},
		{
			name: "date",
			schema: Schema{
				{Name: "date", FieldDescriptor: FieldDescriptor{Type: Date}},
				{Name: "dateArray", FieldDescriptor: FieldDescriptor{Type: Date, Repeat: true}},
			},
			in: Record{
				"date": utc("2019-03-18T04:39:00Z"),
				"dateArray": []any{
					utc("2019-03-18T04:38:00Z"),
					time.Unix(5, 0).UTC(),
					utc("2018-12-24T15:33:30Z"),
				},
			},
			want: "D9F9RH99CD9F9REU999999ECZSKYPL",
		},
		{
			name: "mixed arrays",
			schema: Schema{
				{Name: "boolArray", FieldDescriptor: FieldDescriptor{Type: Bool, Repeat: true}},
				{Name: "int8Array", FieldDescriptor: FieldDescriptor{Type: Int8, Repeat: true}},
				{Name: "stringArray", FieldDescriptor: FieldDescriptor{Type: String, Repeat: true}},
				{Name: "dateArray", FieldDescriptor: FieldDescriptor{Type: Date, Repeat: true}},
			},
			in: Record{
				"boolArray":   []any{false, true, false, false},
				"int8Array":   ints(0, 1, 2, 3),
				"stringArray": []any{"a", "b", "cd", "efg"},
				"dateArray":   []any{time.Unix(0, 0).UTC(), time.Unix(10, 0).UTC(), time.Unix(20, 0).UTC()},
			},
			want: "9D9A999DDTDUDVDW9D999BPC999BQC999DRCSC999FTCUCVC9C9999999999999J999999T",
		},
		{
			name:   "excess input keys",
			schema: Schema{{Name: "name", FieldDescriptor: FieldDescriptor{Type: String}}},
			in:     Record{"name": "Craig", "age": 25, "height": 6},
			want:   "999JMBFDPCXCVC",
			out:    Record{"name": "Craig"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := mustBuffer(t, tc.schema, Options{})
			got := mustEncode(t, b, tc.in)
			if got != tc.want {
				t.Fatalf("Encode = %q, want %q", got, tc.want)
			}
			want := tc.out
			if want == nil {
				want = tc.in
			}
			if dec := mustDecode(t, b, got); !reflect.DeepEqual(dec, want) {
				t.Fatalf("Decode = %#v, want %#v", dec, want)
			}
		})
	}
}

func TestPrecision(t *testing.T) {
	cases := []struct {
		typ       Type
		precision int
		in        float64
		want      string
		out       float64
	}{
		{Int8, 1, 5.5, "FU", 5.5},
		{Int8, 1, 5.55, "FV", 5.6},
		{Uint8, 1, 5.5, "BA", 5.5},
		{Uint8, 1, 5.55, "BB", 5.6},
		{Int16, 2, 5.55, "ARSE", 5.55},
		{Int16, 2, 5.555, "ARSF", 5.56},
		{Uint16, 2, 5.55, "99TO", 5.55},
		{Uint16, 2, 5.555, "99TP", 5.56},
		{Int32, 4, 5.5555, "ENQZGZ9", 5.5555},
		{Int32, 4, 5.55555, "ENQZGZA", 5.5556},
		{Uint32, 4, 5.5555, "999BVEP", 5.5555},
		{Uint32, 4, 5.55555, "999BVEQ", 5.5556},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s/%v", tc.typ, tc.in), func(t *testing.T) {
			s := Schema{{Name: "n", FieldDescriptor: FieldDescriptor{Type: tc.typ, Precision: tc.precision}}}
			b := mustBuffer(t, s, Options{Mode: Strict})
			got := mustEncode(t, b, Record{"n": tc.in})
			if got != tc.want {
				t.Fatalf("Encode = %q, want %q", got, tc.want)
			}
			dec := mustDecode(t, b, got)
			f, ok := dec["n"].(float64)
			if !ok {
				t.Fatalf("decoded %T, want float64", dec["n"])
			}
			if math.Abs(f-tc.out) > 1e-9 {
				t.Fatalf("decoded %v, want %v", f, tc.out)
			}
		})
	}
}

func TestGeoFields(t *testing.T) {
	s := Schema{
		{Name: "geo", FieldDescriptor: FieldDescriptor{Type: Geo}},
		{Name: "geoArray", FieldDescriptor: FieldDescriptor{Type: Geo, Repeat: true}},
	}
	b := mustBuffer(t, s, Options{})
	in := Record{
		"geo": map[string]any{"lat": 52.529562, "lon": 13.413047},
		"geoArray": []any{
			trytes.Point{Lat: 52.52956250000001, Lon: 13.413046874999981},
			trytes.Point{Lat: 40.71426249999996, Lon: -74.005984375},
			&trytes.Point{Lat: 0.0000125, Lon: 0.000015625},
		},
	}
	const want = "NPHTQORL9XKP9CNPHTQORL9XKPMLQLUZLW9USFKPQFFFFF9FFF"
	if got := mustEncode(t, b, in); got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}

	dec := mustDecode(t, b, want)
	near := func(g any, lat, lon float64) {
		t.Helper()
		p, ok := g.(trytes.Point)
		if !ok {
			t.Fatalf("decoded %T, want trytes.Point", g)
		}
		if math.Abs(p.Lat-lat) > 1e-9 || math.Abs(p.Lon-lon) > 1e-9 {
			t.Fatalf("decoded %+v, want (%v, %v)", p, lat, lon)
		}
	}
	near(dec["geo"], 52.52956250000001, 13.413046874999981)
	arr := dec["geoArray"].([]any)
	if len(arr) != 3 {
		t.Fatalf("geoArray len = %d", len(arr))
	}
	near(arr[0], 52.52956250000001, 13.413046874999981)
	near(arr[1], 40.71426249999996, -74.005984375)
	near(arr[2], 0.0000125, 0.000015625)
}

// Typed maps and structs carry their coordinates through in both modes.
func TestGeoTypedInputs(t *testing.T) {
	s := Schema{{Name: "g", FieldDescriptor: FieldDescriptor{Type: Geo}}}
	type point struct{ Lat, Lon float64 }
	inputs := []any{
		map[string]float64{"lat": 52.529562, "lon": 13.413047},
		point{Lat: 52.529562, Lon: 13.413047},
	}
	for _, mode := range []Mode{Lenient, Strict} {
		h := &recHooks{}
		b := mustBuffer(t, s, Options{Mode: mode, Hooks: h})
		for _, in := range inputs {
			if got := mustEncode(t, b, Record{"g": in}); got != "NPHTQORL9XKP" {
				t.Fatalf("%s: Encode(%#v) = %q", mode, in, got)
			}
		}
		if len(h.fallbacks) != 0 {
			t.Fatalf("%s: unexpected fallbacks %v", mode, h.fallbacks)
		}
	}
}

func TestEnum(t *testing.T) {
	s := Schema{{Name: "phoneType", FieldDescriptor: FieldDescriptor{Enum: []any{"mobile", "work", "home"}}}}
	h := &recHooks{}
	b := mustBuffer(t, s, Options{Hooks: h})

	for i, v := range []string{"mobile", "work", "home"} {
		want := "9" + string(trytes.Alphabet[i])
		got := mustEncode(t, b, Record{"phoneType": v})
		if got != want {
			t.Fatalf("Encode(%s) = %q, want %q", v, got, want)
		}
		if dec := mustDecode(t, b, got); dec["phoneType"] != v {
			t.Fatalf("Decode(%q) = %v, want %s", got, dec["phoneType"], v)
		}
	}

	// Unlisted values share index 0.
	if got := mustEncode(t, b, Record{"phoneType": "fax"}); got != "99" {
		t.Fatalf("unlisted Encode = %q, want 99", got)
	}
	if len(h.fallbacks) != 1 || h.fallbacks[0] != "phoneType:"+ReasonEnumValue {
		t.Fatalf("fallbacks = %v", h.fallbacks)
	}

	// Index past the member list.
	dec := mustDecode(t, b, "9C")
	if v, ok := dec["phoneType"]; !ok || v != nil {
		t.Fatalf("out-of-range index decoded to %v (present=%v), want nil", v, ok)
	}

	strict := mustBuffer(t, s, Options{Mode: Strict})
	if _, err := strict.Encode(Record{"phoneType": "fax"}); !errors.Is(err, ErrEnumValue) {
		t.Fatalf("strict unlisted: want ErrEnumValue, got %v", err)
	}
	if _, err := strict.Decode("9C"); !errors.Is(err, ErrEnumValue) {
		t.Fatalf("strict index: want ErrEnumValue, got %v", err)
	}
}

func TestEnumNumericMembers(t *testing.T) {
	s := Schema{{Name: "level", FieldDescriptor: FieldDescriptor{Enum: []any{1, 2, 3}}}}
	b := mustBuffer(t, s, Options{Mode: Strict})
	// JSON numbers arrive as float64.
	if got := mustEncode(t, b, Record{"level": float64(3)}); got != "9B" {
		t.Fatalf("Encode = %q, want 9B", got)
	}
	if dec := mustDecode(t, b, "9B"); dec["level"] != 3 {
		t.Fatalf("Decode = %#v, want declared member 3", dec["level"])
	}
}

func TestGarageProtocol(t *testing.T) {
	s := Schema{
		{Name: "date", FieldDescriptor: FieldDescriptor{Type: Date}},
		{Name: "garageDoor", FieldDescriptor: FieldDescriptor{Type: Bool}},
	}
	b := mustBuffer(t, s, Options{})
	cases := []struct {
		in   Record
		want string
	}{
		{Record{"date": utc("2019-03-18T04:39:00Z"), "garageDoor": false}, "D9F9RH99"},
		{Record{"date": time.Unix(1, 0).UTC(), "garageDoor": true}, "999999AA"},
	}
	for _, tc := range cases {
		got := mustEncode(t, b, tc.in)
		if got != tc.want {
			t.Fatalf("Encode = %q, want %q", got, tc.want)
		}
		if dec := mustDecode(t, b, got); !reflect.DeepEqual(dec, tc.in) {
			t.Fatalf("Decode = %#v, want %#v", dec, tc.in)
		}
	}
}

// ==============================
// Limit and length tracking
// ==============================

func TestOverLimit(t *testing.T) {
	s := Schema{{Name: "intArray", FieldDescriptor: FieldDescriptor{Type: Int32, Repeat: true}}}
	h := &recHooks{}
	b := mustBuffer(t, s, Options{SymbolLimit: 10, Hooks: h})

	res, err := b.EncodeResult(Record{"intArray": []int{0, 1, 2, 3, 4}})
	if err != nil {
		t.Fatalf("EncodeResult: %v", err)
	}
	if res.Length != 37 || !res.OverLimit || len(res.Symbols) != 37 {
		t.Fatalf("result = %+v, want length 37 over limit", res)
	}
	if b.LastEncodedLength() != 37 || !b.OverLimit() {
		t.Fatalf("last = %d over = %v", b.LastEncodedLength(), b.OverLimit())
	}
	if len(h.over) != 1 || h.over[0] != [2]int{37, 10} {
		t.Fatalf("OverLimit hook = %v", h.over)
	}

	// Under the limit clears the flag.
	if _, err := b.Encode(Record{"intArray": []int{}}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if b.LastEncodedLength() != 2 || b.OverLimit() {
		t.Fatalf("after small encode: last = %d over = %v", b.LastEncodedLength(), b.OverLimit())
	}
}

func TestSymbolLimitDefaults(t *testing.T) {
	s := Schema{{Name: "s", FieldDescriptor: FieldDescriptor{Type: String}}}
	if got := mustBuffer(t, s, Options{}).SymbolLimit(); got != DefaultSymbolLimit {
		t.Fatalf("default limit = %d, want %d", got, DefaultSymbolLimit)
	}

	unlimited := mustBuffer(t, s, Options{SymbolLimit: -1})
	if unlimited.SymbolLimit() != 0 {
		t.Fatalf("negative limit should disable, got %d", unlimited.SymbolLimit())
	}
	res, err := unlimited.EncodeResult(Record{"s": strings.Repeat("x", 5000)})
	if err != nil {
		t.Fatalf("EncodeResult: %v", err)
	}
	if res.OverLimit || res.Length != 4+10000 {
		t.Fatalf("unlimited result = %d over=%v", res.Length, res.OverLimit)
	}
}

func TestLastEncodedLengthTracksEveryEncode(t *testing.T) {
	s := Schema{{Name: "name", FieldDescriptor: FieldDescriptor{Type: String}}}
	b := mustBuffer(t, s, Options{})
	for _, name := range []string{"", "a", "Craig", "Craig O'Connor"} {
		got := mustEncode(t, b, Record{"name": name})
		if b.LastEncodedLength() != len(got) {
			t.Fatalf("%q: last = %d, want %d", name, b.LastEncodedLength(), len(got))
		}
	}
}

func TestConcurrentEncodeDecode(t *testing.T) {
	s := Schema{
		{Name: "id", FieldDescriptor: FieldDescriptor{Type: Uint32}},
		{Name: "tags", FieldDescriptor: FieldDescriptor{Type: String, Repeat: true}},
	}
	b := mustBuffer(t, s, Options{Mode: Strict})

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := Record{"id": int64(i), "tags": []any{fmt.Sprint("t", i)}}
			res, err := b.EncodeResult(in)
			if err != nil {
				errs <- err
				return
			}
			if res.Length != len(res.Symbols) {
				errs <- fmt.Errorf("length %d != %d", res.Length, len(res.Symbols))
				return
			}
			out, err := b.Decode(res.Symbols)
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(out, in) {
				errs <- fmt.Errorf("round trip %v != %v", out, in)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

// ==============================
// Degradation and strictness
// ==============================

func TestUnknownType(t *testing.T) {
	s := Schema{
		{Name: "blob", FieldDescriptor: FieldDescriptor{Type: "blob"}},
		{Name: "ok", FieldDescriptor: FieldDescriptor{Type: Bool}},
	}
	h := &recHooks{}
	b := mustBuffer(t, s, Options{Hooks: h})
	if len(h.fallbacks) != 1 || h.fallbacks[0] != "blob:"+ReasonUnknownType {
		t.Fatalf("compile fallbacks = %v", h.fallbacks)
	}

	got := mustEncode(t, b, Record{"blob": []byte{1, 2, 3}, "ok": true})
	if got != "A" {
		t.Fatalf("Encode = %q, want A", got)
	}
	dec := mustDecode(t, b, got)
	if v, ok := dec["blob"]; !ok || v != nil {
		t.Fatalf("blob decoded to %v (present=%v)", v, ok)
	}
	if dec["ok"] != true {
		t.Fatalf("ok decoded to %v", dec["ok"])
	}

	if _, err := New(s, Options{Mode: Strict}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("strict New: want ErrUnknownType, got %v", err)
	}
}

func TestMissingFields(t *testing.T) {
	s := Schema{
		{Name: "id", FieldDescriptor: FieldDescriptor{Type: Uint8}},
		{Name: "name", FieldDescriptor: FieldDescriptor{Type: String}},
		{Name: "tags", FieldDescriptor: FieldDescriptor{Type: Int8, Repeat: true}},
	}
	h := &recHooks{}
	b := mustBuffer(t, s, Options{Hooks: h})
	got := mustEncode(t, b, Record{"name": "a"})
	if got != "99"+"999BPC"+"99" {
		t.Fatalf("Encode = %q", got)
	}
	want := []string{"id:" + ReasonMissingField, "tags:" + ReasonMissingField}
	if !reflect.DeepEqual(h.fallbacks, want) {
		t.Fatalf("fallbacks = %v, want %v", h.fallbacks, want)
	}

	strict := mustBuffer(t, s, Options{Mode: Strict})
	_, err := strict.Encode(Record{"name": "a"})
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "id" || !errors.Is(err, ErrMissingField) {
		t.Fatalf("strict missing: got %v", err)
	}
}

func TestLenientClampAndCoerce(t *testing.T) {
	s := Schema{
		{Name: "small", FieldDescriptor: FieldDescriptor{Type: Int8}},
		{Name: "count", FieldDescriptor: FieldDescriptor{Type: Uint8}},
		{Name: "flag", FieldDescriptor: FieldDescriptor{Type: Bool}},
		{Name: "when", FieldDescriptor: FieldDescriptor{Type: Date}},
	}
	h := &recHooks{}
	b := mustBuffer(t, s, Options{Hooks: h})
	got := mustEncode(t, b, Record{
		"small": 1000,
		"count": -5,
		"flag":  "not a bool",
		"when":  time.Unix(-10, 0),
	})
	// 127, 0, false, epoch
	if got != "IL"+"99"+"9"+"9999999" {
		t.Fatalf("Encode = %q", got)
	}
	want := []string{
		"small:" + ReasonClamp,
		"count:" + ReasonClamp,
		"flag:" + ReasonCoerce,
		"when:" + ReasonClamp,
	}
	if !reflect.DeepEqual(h.fallbacks, want) {
		t.Fatalf("fallbacks = %v, want %v", h.fallbacks, want)
	}

	strict := mustBuffer(t, s, Options{Mode: Strict})
	for _, r := range []Record{
		{"small": 1000, "count": 1, "flag": true, "when": time.Unix(0, 0)},
		{"small": 1, "count": -5, "flag": true, "when": time.Unix(0, 0)},
		{"small": 1, "count": 1, "flag": "nope", "when": time.Unix(0, 0)},
		{"small": 1, "count": 1, "flag": true, "when": time.Unix(-10, 0)},
	} {
		if _, err := strict.Encode(r); err == nil {
			t.Fatalf("strict Encode(%v) should fail", r)
		}
	}
}

// A scale that overflows to +Inf turns 0 into NaN; lenient mode must write
// zero, not the type maximum.
func TestLenientOverflowingPrecision(t *testing.T) {
	s := Schema{
		{Name: "u", FieldDescriptor: FieldDescriptor{Type: Uint8, Precision: 400}},
		{Name: "i", FieldDescriptor: FieldDescriptor{Type: Int8, Precision: 400}},
	}
	h := &recHooks{}
	b := mustBuffer(t, s, Options{Hooks: h})
	if got := mustEncode(t, b, Record{"u": 0, "i": 0}); got != "99"+"DT" {
		t.Fatalf("Encode = %q, want %q", got, "99DT")
	}
	want := []string{"u:" + ReasonClamp, "i:" + ReasonClamp}
	if !reflect.DeepEqual(h.fallbacks, want) {
		t.Fatalf("fallbacks = %v, want %v", h.fallbacks, want)
	}
	if _, err := New(s, Options{Mode: Strict}); err == nil {
		t.Fatal("strict New accepted precision 400")
	}
}

func TestLenientArraySalvage(t *testing.T) {
	s := Schema{{Name: "v", FieldDescriptor: FieldDescriptor{Type: Uint8, Repeat: true}}}
	h := &recHooks{}
	b := mustBuffer(t, s, Options{Hooks: h})
	got := mustEncode(t, b, Record{"v": []any{1, 300, -1}})
	if got != "9C"+"9A"+"IL"+"99" {
		t.Fatalf("Encode = %q", got)
	}
	if len(h.fallbacks) != 2 {
		t.Fatalf("fallbacks = %v", h.fallbacks)
	}

	long := make([]int, 300)
	got = mustEncode(t, b, Record{"v": long})
	if len(got) != 2+2*trytes.MaxArrayLen || got[:2] != "IL" {
		t.Fatalf("long array encoded to %d symbols, prefix %q", len(got), got[:2])
	}

	strict := mustBuffer(t, s, Options{Mode: Strict})
	if _, err := strict.Encode(Record{"v": long}); !errors.Is(err, trytes.ErrOutOfRange) {
		t.Fatalf("strict long array: want ErrOutOfRange, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	s := Schema{
		{Name: "name", FieldDescriptor: FieldDescriptor{Type: String}},
		{Name: "id", FieldDescriptor: FieldDescriptor{Type: Uint16}},
	}
	h := &recHooks{}
	b := mustBuffer(t, s, Options{Hooks: h})
	full := mustEncode(t, b, Record{"name": "Craig", "id": 7})

	for _, n := range []int{0, 3, 10, len(full) - 1} {
		_, err := b.Decode(full[:n])
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("Decode(%d symbols): want ErrTruncated, got %v", n, err)
		}
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Op != "decode" {
			t.Fatalf("want *FieldError, got %T", err)
		}
	}
	if len(h.rejected) != 4 {
		t.Fatalf("DecodeRejected calls = %v", h.rejected)
	}
}

func TestDecodeMalformed(t *testing.T) {
	s := Schema{{Name: "n", FieldDescriptor: FieldDescriptor{Type: Int8}}}
	b := mustBuffer(t, s, Options{})
	if _, err := b.Decode("a1"); !errors.Is(err, trytes.ErrInvalidSymbol) {
		t.Fatalf("want ErrInvalidSymbol, got %v", err)
	}
	// ZZ = 728 is past the int8 range.
	if _, err := b.Decode("ZZ"); !errors.Is(err, trytes.ErrOutOfRange) {
		t.Fatalf("want ErrOutOfRange, got %v", err)
	}
}

func TestTrailingSymbols(t *testing.T) {
	s := Schema{{Name: "ok", FieldDescriptor: FieldDescriptor{Type: Bool}}}
	lenient := mustBuffer(t, s, Options{})
	if dec := mustDecode(t, lenient, "AXYZ"); dec["ok"] != true || len(dec) != 1 {
		t.Fatalf("lenient Decode = %v", dec)
	}
	strict := mustBuffer(t, s, Options{Mode: Strict})
	if _, err := strict.Decode("AXYZ"); !errors.Is(err, ErrTrailingSymbols) {
		t.Fatalf("strict: want ErrTrailingSymbols, got %v", err)
	}
}

func TestNewSchemaErrors(t *testing.T) {
	if _, err := New(nil, Options{}); !errors.Is(err, ErrNilSchema) {
		t.Fatalf("nil schema: got %v", err)
	}

	empty := mustBuffer(t, Schema{}, Options{})
	if got := mustEncode(t, empty, Record{"a": 1}); got != "" {
		t.Fatalf("empty schema encoded %q", got)
	}
	if dec := mustDecode(t, empty, ""); len(dec) != 0 {
		t.Fatalf("empty schema decoded %v", dec)
	}

	bad := Schema{
		{Name: "a", FieldDescriptor: FieldDescriptor{Type: Int8, Precision: -1}},
		{Name: "a", FieldDescriptor: FieldDescriptor{Type: Bool}},
		{Name: "e", FieldDescriptor: FieldDescriptor{Enum: []any{}}},
		{Name: "p", FieldDescriptor: FieldDescriptor{Type: Int32, Precision: MaxPrecision + 1}},
	}
	_, err := New(bad, Options{Mode: Strict})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("want *SchemaError, got %v", err)
	}
	if n := strings.Count(err.Error(), "\n") + 1; n != 4 {
		t.Fatalf("want 4 joined schema errors, got %d: %v", n, err)
	}
}

func TestSchemaIsCopied(t *testing.T) {
	members := []any{"a", "b"}
	s := Schema{{Name: "e", FieldDescriptor: FieldDescriptor{Enum: members}}}
	b := mustBuffer(t, s, Options{})
	members[0] = "z"
	s[0].Name = "renamed"

	if dec := mustDecode(t, b, "99"); dec["e"] != "a" {
		t.Fatalf("decoded %v after caller mutation", dec)
	}
	if got := b.Schema()[0].Name; got != "e" {
		t.Fatalf("Schema() name = %q", got)
	}
}

func TestLayout(t *testing.T) {
	s := Schema{
		{Name: "id", FieldDescriptor: FieldDescriptor{Type: Uint32}},
		{Name: "name", FieldDescriptor: FieldDescriptor{Type: String}},
		{Name: "kind", FieldDescriptor: FieldDescriptor{Enum: []any{"x"}}},
		{Name: "at", FieldDescriptor: FieldDescriptor{Type: Geo}},
		{Name: "tags", FieldDescriptor: FieldDescriptor{Type: Int8, Repeat: true}},
		{Name: "raw", FieldDescriptor: FieldDescriptor{Type: "bytes"}},
	}
	want := []FieldLayout{
		{"id", "integer", 7},
		{"name", "string", -1},
		{"kind", "enum", 2},
		{"at", "geo", 12},
		{"tags", "array", -1},
		{"raw", "fallback", 0},
	}
	if got := mustBuffer(t, s, Options{}).Layout(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Layout = %+v, want %+v", got, want)
	}
}

func TestModeString(t *testing.T) {
	if Lenient.String() != "lenient" || Strict.String() != "strict" || Mode(9).String() != "unknown" {
		t.Fatal("unexpected Mode strings")
	}
}
