package resultdb

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gridward/adequacy_sim/pkg/types"
)

// Get returns the cached result for the key, if one exists with a
// matching fingerprint. A stored entry with a different fingerprint
// means the inputs changed since it was computed; it is reported as
// absent and will be overwritten by the next Put.
func (s *Store) Get(key types.RunKey) (*types.RunResult, bool, error) {
	var (
		storedFingerprint string
		payload           string
	)
	err := s.db.QueryRow(
		"SELECT fingerprint, payload FROM run_cache "+
			"WHERE scenario = ? AND region = ? AND weather_year = ?",
		key.Scenario, key.Region, key.WeatherYear,
	).Scan(&storedFingerprint, &payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if storedFingerprint != key.Fingerprint {
		s.log.Debug().
			Str("scenario", key.Scenario).
			Str("region", key.Region).
			Str("stored", storedFingerprint).
			Str("current", key.Fingerprint).
			Msg("cache entry stale, inputs changed")
		return nil, false, nil
	}

	var result types.RunResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

// Put stores or overwrites the result for its key.
func (s *Store) Put(result *types.RunResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO run_cache "+
			"(scenario, region, weather_year, fingerprint, payload, created_at) "+
			"VALUES (?, ?, ?, ?, ?, ?)",
		result.Key.Scenario,
		result.Key.Region,
		result.Key.WeatherYear,
		result.Key.Fingerprint,
		string(payload),
		time.Now().UTC().Unix(),
	)
	return err
}
