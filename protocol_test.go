package trytebuffer_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	tb "github.com/unkn0wn-root/trytebuffer"
	"github.com/unkn0wn-root/trytebuffer/schemafile"
	"github.com/unkn0wn-root/trytebuffer/trytes"
)

func loadBuffer(t *testing.T, path string, opts tb.Options) *tb.Buffer {
	t.Helper()
	s, err := schemafile.Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	b, err := tb.New(s, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

const addressSymbols = "99AAMBFDPCXCVCEAYBLAMBCDBDBDCDFD9C999FMBCCYB999RMBFDPCXCVCVC9DTCGD999LQBCDCDQCTCFD9EI9UWV999VPABBUAUAZAZAZAZAZAZAZA9AMJQOVHKJ9MRM"

func TestAddressProtocol(t *testing.T) {
	b := loadBuffer(t, "testdata/address.json", tb.Options{Mode: tb.Strict})
	in := tb.Record{
		"name":      "Craig O'Connor",
		"aliases":   []string{"CTO", "Craiggles", "Goober"},
		"id":        76543456,
		"phone":     "+8005555555",
		"phoneType": "work",
		"location":  map[string]any{"lat": 40.76078, "lon": -111.89105},
	}

	res, err := b.EncodeResult(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if res.Symbols != addressSymbols {
		t.Fatalf("Encode:\n got %s\nwant %s", res.Symbols, addressSymbols)
	}
	if res.Length != len(addressSymbols) || res.OverLimit {
		t.Fatalf("result = %+v", res)
	}

	out, err := b.Decode(res.Symbols)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	loc, ok := out["location"].(trytes.Point)
	if !ok {
		t.Fatalf("location decoded as %T", out["location"])
	}
	// Cells decode to their centre, not the original point.
	if math.Abs(loc.Lat-40.760787500000006) > 1e-9 || math.Abs(loc.Lon+111.89104687500001) > 1e-9 {
		t.Fatalf("location = %+v", loc)
	}
	delete(out, "location")
	want := tb.Record{
		"name":      "Craig O'Connor",
		"aliases":   []any{"CTO", "Craiggles", "Goober"},
		"id":        int64(76543456),
		"phone":     "+8005555555",
		"phoneType": "work",
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("Decode = %#v, want %#v", out, want)
	}
}

func TestGarageProtocolFromFile(t *testing.T) {
	b := loadBuffer(t, "testdata/garage.yaml", tb.Options{})
	in := tb.Record{"date": time.Date(2019, 3, 18, 4, 39, 0, 0, time.UTC), "garageDoor": false}
	got, err := b.Encode(in)
	if err != nil || got != "D9F9RH99" {
		t.Fatalf("Encode = %q, %v", got, err)
	}
	out, err := b.Decode(got)
	if err != nil || !reflect.DeepEqual(out, in) {
		t.Fatalf("Decode = %#v, %v", out, err)
	}
}

func TestReadingProtocol(t *testing.T) {
	b := loadBuffer(t, "testdata/reading.toml", tb.Options{Mode: tb.Strict})
	in := tb.Record{
		"sensor":  uint16(513),
		"celsius": -12.34,
		"samples": []int{-3, 0, 7},
		"takenAt": time.Unix(1552883940, 0).UTC(),
	}
	sym, err := b.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// 4 + 4 + (2 + 3*2) + 7
	if len(sym) != 23 {
		t.Fatalf("len = %d (%s)", len(sym), sym)
	}
	out, err := b.Decode(sym)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := tb.Record{
		"sensor":  int64(513),
		"celsius": -12.34,
		"samples": []any{int64(-3), int64(0), int64(7)},
		"takenAt": time.Unix(1552883940, 0).UTC(),
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("Decode = %#v, want %#v", out, want)
	}
}
