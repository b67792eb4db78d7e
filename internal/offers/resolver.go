package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ratedesk/ratedesk-backend/pkg/db/models"
)

// Resolution is the consistent identifier triple an offer is written with.
// All fields may be empty when neither input matched a cataloged network;
// MCCMNC then still carries the caller's literal code so provisional offers
// can reference networks not yet cataloged.
type Resolution struct {
	NetworkID *int64
	MCCMNC    string
	CountryID *int64
}

// Resolvable reports whether the triple satisfies the write precondition:
// at least one of network id / combined code must be non-null.
func (r Resolution) Resolvable() bool {
	return r.NetworkID != nil || r.MCCMNC != ""
}

// resolveIdentifiers reconciles an optional network id with an optional
// combined code against the network catalog. When both are supplied and
// disagree, the id's stored code wins and the supplied code is discarded.
// Runs on the caller's transaction so the triple and the write it feeds
// see the same catalog state.
func resolveIdentifiers(ctx context.Context, tx *gorm.DB, networkID *int64, mccmnc string) (Resolution, error) {
	out := Resolution{MCCMNC: strings.TrimSpace(mccmnc)}

	if networkID != nil {
		var net models.Network
		err := tx.WithContext(ctx).First(&net, "id = ?", *networkID).Error
		switch {
		case err == nil:
			// the matched network's own values replace whatever code was
			// supplied, even when its stored code is empty
			out.NetworkID = &net.ID
			out.CountryID = net.CountryID
			out.MCCMNC = net.MCCMNC
			return out, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			// unknown id: fall through to the code lookup
		default:
			return Resolution{}, fmt.Errorf("looking up network %d: %w", *networkID, err)
		}
	}

	if out.MCCMNC != "" {
		var net models.Network
		err := tx.WithContext(ctx).First(&net, "mccmnc = ?", out.MCCMNC).Error
		switch {
		case err == nil:
			out.NetworkID = &net.ID
			out.CountryID = net.CountryID
			out.MCCMNC = net.MCCMNC
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no resolution; keep the literal code
		default:
			return Resolution{}, fmt.Errorf("looking up network by code %q: %w", out.MCCMNC, err)
		}
	}

	return out, nil
}
