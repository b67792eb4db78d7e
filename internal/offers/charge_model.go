package offers

import (
	"strings"

	"github.com/ratedesk/ratedesk-backend/pkg/enums"
)

// inheritChargeModel picks the billing model for a submission: the caller's
// value when non-empty, then the connection's stored default, then the
// platform fallback.
func inheritChargeModel(supplied string, connectionDefault enums.BillingModel) string {
	if v := strings.TrimSpace(supplied); v != "" {
		return v
	}
	if connectionDefault != "" {
		return connectionDefault.String()
	}
	return enums.BillingPerSubmitted.String()
}
