package units

// Capacity tables arrive in GW, hourly series in MW, storage energy in
// GWh. Conversions live here so the factor of 1000 is written once.

func GwToMw(gw float64) float64 {
	return gw * 1000
}

func MwToGw(mw float64) float64 {
	return mw / 1000
}

// MwhToGwh converts one hour of power in MW to stored energy in GWh.
func MwhToGwh(mwh float64) float64 {
	return mwh / 1000
}

func GwhToMwh(gwh float64) float64 {
	return gwh * 1000
}
