package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"

	dbtypes "github.com/ratedesk/ratedesk-backend/pkg/db/types"
)

// NormalizeSenderIDLists rewrites offer rows whose sender_id_types column
// still holds a pre-list scalar. The rule matches the read-side coercion:
// NULL or empty becomes an empty array, an array literal is kept as parsed,
// anything else is split on commas with elements trimmed.
func NormalizeSenderIDLists(ctx context.Context, conn *gorm.DB) error {
	rows, err := conn.WithContext(ctx).
		Raw(`SELECT id, sender_id_types FROM offers`).
		Rows()
	if err != nil {
		return fmt.Errorf("reading sender id columns: %w", err)
	}

	type rewrite struct {
		id    int64
		value string
	}
	var rewrites []rewrite

	for rows.Next() {
		var (
			id  int64
			raw sql.NullString
		)
		if err := rows.Scan(&id, &raw); err != nil {
			rows.Close()
			return fmt.Errorf("scanning offer %d: %w", id, err)
		}

		normalized, changed, err := normalizeSenderIDValue(raw)
		if err != nil {
			rows.Close()
			return fmt.Errorf("offer %d: %w", id, err)
		}
		if changed {
			rewrites = append(rewrites, rewrite{id: id, value: normalized})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating offers: %w", err)
	}
	rows.Close()

	for _, r := range rewrites {
		res := conn.WithContext(ctx).
			Exec(`UPDATE offers SET sender_id_types = ? WHERE id = ?`, r.value, r.id)
		if res.Error != nil {
			return fmt.Errorf("rewriting offer %d: %w", r.id, res.Error)
		}
	}
	return nil
}

func normalizeSenderIDValue(raw sql.NullString) (string, bool, error) {
	original := ""
	if raw.Valid {
		original = raw.String
	}

	scanSrc := strings.TrimSpace(original)
	// A jsonb string literal arrives quoted; unwrap before coercion.
	if strings.HasPrefix(scanSrc, `"`) && strings.HasSuffix(scanSrc, `"`) && len(scanSrc) >= 2 {
		scanSrc = scanSrc[1 : len(scanSrc)-1]
	}

	var list dbtypes.StringList
	if err := list.Scan(scanSrc); err != nil {
		return "", false, err
	}

	value, err := list.Value()
	if err != nil {
		return "", false, err
	}
	normalized := value.(string)
	return normalized, normalized != original, nil
}

// BackfillCombinedCodes copies the network's combined code onto offers that
// resolved a network id but were written before the denormalized column
// existed.
func BackfillCombinedCodes(ctx context.Context, conn *gorm.DB) error {
	res := conn.WithContext(ctx).Exec(`
		UPDATE offers
		SET mccmnc = (SELECT mccmnc FROM networks WHERE networks.id = offers.network_id)
		WHERE network_id IS NOT NULL
		  AND (mccmnc IS NULL OR mccmnc = '')
		  AND (SELECT mccmnc FROM networks WHERE networks.id = offers.network_id) IS NOT NULL`)
	if res.Error != nil {
		return fmt.Errorf("backfilling combined codes: %w", res.Error)
	}
	return nil
}

// BackfillCountryRefs copies the network's country onto offers missing one.
func BackfillCountryRefs(ctx context.Context, conn *gorm.DB) error {
	res := conn.WithContext(ctx).Exec(`
		UPDATE offers
		SET country_id = (SELECT country_id FROM networks WHERE networks.id = offers.network_id)
		WHERE network_id IS NOT NULL
		  AND country_id IS NULL
		  AND (SELECT country_id FROM networks WHERE networks.id = offers.network_id) IS NOT NULL`)
	if res.Error != nil {
		return fmt.Errorf("backfilling country refs: %w", res.Error)
	}
	return nil
}
