package lookups

// Dropdowns is the lookup dictionary served to clients for populating offer
// form fields. The lists are validation hints only; the engine never rejects
// a submission for using a value outside them.
type Dropdowns struct {
	RouteTypes           []string `json:"route_types"`
	KnownHops            []string `json:"known_hops"`
	SenderIDSupported    []string `json:"sender_id_supported"`
	RegistrationRequired []string `json:"registration_required"`
	IsExclusive          []string `json:"is_exclusive"`
}

// DefaultDropdowns returns the seed dictionary used until an operator stores
// a custom one.
func DefaultDropdowns() Dropdowns {
	return Dropdowns{
		RouteTypes:           []string{"Direct", "SS7", "SIM", "Local Bypass"},
		KnownHops:            []string{"0-Hop", "1-Hop", "2-Hops", "N-Hops"},
		SenderIDSupported:    []string{"Dynamic Alphanumeric", "Dynamic Numeric", "Short code"},
		RegistrationRequired: []string{"Yes", "No"},
		IsExclusive:          []string{"Yes", "No"},
	}
}
