package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/railcore/cif-engine/src/common/types"
	"github.com/railcore/cif-engine/src/common/utils"
)

const tiplocCacheTTL = 7 * 24 * time.Hour

// GetStanoxByTiploc resolves a TIPLOC to its STANOX, going through redis
// before the database.
func (dc *DataClient) GetStanoxByTiploc(ctx context.Context, tiploc string) (int, error) {
	key := utils.BuildTiplocKey(tiploc)

	var stanox int
	if err := dc.rdb.Get(ctx, key).Scan(&stanox); err == nil {
		return stanox, nil
	} else if err != redis.Nil {
		dc.logger.Debugw("redis lookup failed", "key", key, "error", err)
	}

	err := dc.pg.QueryRow(ctx, `
		SELECT stanox FROM tiploc
		WHERE tiploc_code = $1
	`, tiploc).Scan(&stanox)
	if err != nil {
		return 0, err
	}

	if err := dc.rdb.Set(ctx, key, stanox, tiplocCacheTTL).Err(); err != nil {
		dc.logger.Debugw("redis set failed", "key", key, "error", err)
	}
	return stanox, nil
}

// GetTiplocByCRS returns the first location carrying the given 3-alpha code.
func (dc *DataClient) GetTiplocByCRS(ctx context.Context, crs string) (types.Tiploc, error) {
	var t types.Tiploc
	var crsCode, description sql.NullString

	err := dc.pg.QueryRow(ctx, `
		SELECT tiploc_code, crs_code, description, stanox, nalco FROM tiploc
		WHERE crs_code = $1
		ORDER BY tiploc_code
		LIMIT 1
	`, crs).Scan(&t.Code, &crsCode, &description, &t.Stanox, &t.NLC)
	if err != nil {
		return types.Tiploc{}, err
	}

	t.CRS = crsCode.String
	t.Description = description.String
	return t, nil
}

// GetAllTiplocs returns every persisted location, ordered by code.
func (dc *DataClient) GetAllTiplocs(ctx context.Context) ([]types.Tiploc, error) {
	rows, err := dc.pg.Query(ctx, `
		SELECT tiploc_code, crs_code, description, stanox, nalco FROM tiploc
		ORDER BY tiploc_code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Tiploc
	for rows.Next() {
		var t types.Tiploc
		var crsCode, description sql.NullString
		if err := rows.Scan(&t.Code, &crsCode, &description, &t.Stanox, &t.NLC); err != nil {
			return nil, err
		}
		t.CRS = crsCode.String
		t.Description = description.String
		out = append(out, t)
	}
	return out, rows.Err()
}
