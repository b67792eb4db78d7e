package auth

// Capability names a single permission a token can carry.
type Capability string

const (
	CapabilityCatalogRead  Capability = "catalog:read"
	CapabilityCatalogWrite Capability = "catalog:write"
	CapabilityConfigWrite  Capability = "config:write"
)

func (c Capability) String() string {
	return string(c)
}

func (c Capability) IsValid() bool {
	switch c {
	case CapabilityCatalogRead, CapabilityCatalogWrite, CapabilityConfigWrite:
		return true
	default:
		return false
	}
}

// Checker answers whether a set of granted capabilities satisfies a
// required one. Write capabilities imply the matching read capability.
type Checker interface {
	Allows(granted []Capability, required Capability) bool
}

type checker struct{}

// NewChecker returns the default capability checker.
func NewChecker() Checker {
	return checker{}
}

func (checker) Allows(granted []Capability, required Capability) bool {
	for _, cap := range granted {
		if cap == required {
			return true
		}
		if required == CapabilityCatalogRead && cap == CapabilityCatalogWrite {
			return true
		}
	}
	return false
}
