package geo

import "context"

// ZipGeocoder resolves a 5-digit postal code to a latitude/longitude pair.
// An unknown or non-geocodable ZIP is a client-input error
// (types.KindInvalidLocation) and must not be retried. Implementations are
// injected, never held as process globals.
type ZipGeocoder interface {
	Geocode(ctx context.Context, zipCode string) (lat, lon float64, err error)
}
