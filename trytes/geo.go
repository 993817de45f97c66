package trytes

import (
	"fmt"
	"math"
	"strings"
)

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" msgpack:"lat" cbor:"lat" mapstructure:"lat"`
	Lon float64 `json:"lon" msgpack:"lon" cbor:"lon" mapstructure:"lon"`
}

// Geo cells follow the Open Location Code grid (five digit pairs refined by
// one 4x5 grid digit), spelled with a 20-symbol subset of the tryte alphabet.
// The full-code separator sits after the eighth digit.
const (
	geoAlphabet  = "FGHJKLMNOPQRSTUVXWYZ"
	geoSeparator = '9'
	geoPairs     = 5
	geoBase      = 20
	gridRows     = 5
	gridCols     = 4

	latCells = 8000 * gridRows // cells per degree of latitude
	lonCells = 8000 * gridCols // cells per degree of longitude
)

var geoValue = func() (tbl [256]int8) {
	for i := range tbl {
		tbl[i] = -1
	}
	for i := 0; i < len(geoAlphabet); i++ {
		tbl[geoAlphabet[i]] = int8(i)
	}
	return tbl
}()

// cell converts a shifted coordinate to its integer cell index. The
// intermediate rounding absorbs float error on values sitting on a cell edge.
func cell(v float64, perDegree int64) int64 {
	x := v * float64(perDegree)
	return int64(math.Floor(math.Round(x*1e6) / 1e6))
}

// EncodeGeo encodes g as a 12-symbol cell code. Latitude is clipped to
// [-90, 90] and longitude normalized to [-180, 180).
func EncodeGeo(g Point) (string, error) {
	if math.IsNaN(g.Lat) || math.IsNaN(g.Lon) || math.IsInf(g.Lat, 0) || math.IsInf(g.Lon, 0) {
		return "", fmt.Errorf("%w: non-finite coordinate %v", ErrOutOfRange, g)
	}
	lat := math.Max(-90, math.Min(90, g.Lat))
	lon := math.Mod(g.Lon+180, 360)
	if lon < 0 {
		lon += 360
	}

	latVal := cell(lat+90, latCells)
	if maxLat := int64(180*latCells) - 1; latVal > maxLat {
		latVal = maxLat
	}
	lonVal := cell(lon, lonCells)
	if maxLon := int64(360*lonCells) - 1; lonVal > maxLon {
		lonVal = maxLon
	}

	grid := (latVal%gridRows)*gridCols + lonVal%gridCols
	latVal /= gridRows
	lonVal /= gridCols

	var digits [2 * geoPairs]byte
	for i := geoPairs - 1; i >= 0; i-- {
		digits[2*i] = geoAlphabet[latVal%geoBase]
		digits[2*i+1] = geoAlphabet[lonVal%geoBase]
		latVal /= geoBase
		lonVal /= geoBase
	}

	var b strings.Builder
	b.Grow(sizes[Geo])
	b.Write(digits[:8])
	b.WriteByte(geoSeparator)
	b.Write(digits[8:])
	b.WriteByte(geoAlphabet[grid])
	return b.String(), nil
}

// DecodeGeo decodes the leading 12 symbols of s to the centre of its cell.
func DecodeGeo(s string) (Point, error) {
	w := sizes[Geo]
	if err := need(s, w); err != nil {
		return Point{}, err
	}
	code := s[:w]
	if code[8] != geoSeparator {
		return Point{}, fmt.Errorf("%w: geo code %q missing separator", ErrInvalidSymbol, code)
	}
	digits := code[:8] + code[9:]

	var latVal, lonVal int64
	for i := 0; i < len(digits); i++ {
		d := geoValue[digits[i]]
		if d < 0 {
			return Point{}, fmt.Errorf("%w %q in geo code %q", ErrInvalidSymbol, digits[i], code)
		}
		switch {
		case i == len(digits)-1:
			latVal = latVal*gridRows + int64(d)/gridCols
			lonVal = lonVal*gridCols + int64(d)%gridCols
		case i%2 == 0:
			latVal = latVal*geoBase + int64(d)
		default:
			lonVal = lonVal*geoBase + int64(d)
		}
	}
	if latVal >= 180*latCells || lonVal >= 360*lonCells {
		return Point{}, fmt.Errorf("%w: geo code %q", ErrOutOfRange, code)
	}

	return Point{
		Lat: float64(latVal)/latCells - 90 + 0.5/latCells,
		Lon: float64(lonVal)/lonCells - 180 + 0.5/lonCells,
	}, nil
}
