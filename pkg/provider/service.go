// Dataset provider: reads hourly series from per-region CSV files and
// capacity/classification/storage tables from a TOML file.
//
// Layout under the dataset directory:
//
//	dataset.toml                       regions, groups, technologies,
//	                                   capacity and storage tables
//	<dataset_key>_<year>_demand.csv    one MW value per line, 8760 lines
//	<dataset_key>_<year>_solar_cf.csv  one CF value per line
//	<dataset_key>_<year>_wind_cf.csv   one CF value per line
package provider

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/gridward/adequacy_sim/pkg/aggregator"
	"github.com/gridward/adequacy_sim/pkg/types"
	"github.com/rs/zerolog"
)

type Dataset struct {
	dir    string
	tables datasetTables
	log    zerolog.Logger
}

// OpenDataset loads and validates the dataset tables. Series files are
// read on demand per (region, weather year).
func OpenDataset(dir string, log zerolog.Logger) (*Dataset, error) {
	path := filepath.Join(dir, "dataset.toml")
	var tables datasetTables
	if _, err := toml.DecodeFile(path, &tables); err != nil {
		return nil, fmt.Errorf("failed to load dataset tables: %w", err)
	}
	if len(tables.Regions) == 0 {
		return nil, types.MissingDataError{Source: path}
	}
	for _, row := range tables.Capacity {
		if row.GW < 0 {
			return nil, types.InvalidCapacityError{Field: row.Technology, Value: row.GW}
		}
	}
	log.Info().Str("dir", dir).
		Int("regions", len(tables.Regions)).
		Int("capacity_rows", len(tables.Capacity)).
		Msg("dataset loaded")
	return &Dataset{dir: dir, tables: tables, log: log}, nil
}

func (d *Dataset) Region(regionID string) (types.Region, error) {
	for _, r := range d.tables.Regions {
		if r.ID == regionID {
			return r, nil
		}
	}
	return types.Region{}, types.MissingDataError{Region: regionID, Source: "region table"}
}

// Regions lists every region in the dataset, for batch invocations
// that do not name an explicit subset.
func (d *Dataset) Regions() []types.Region {
	return append([]types.Region(nil), d.tables.Regions...)
}

func (d *Dataset) Group(groupID string) (types.TransmissionGroup, error) {
	for _, g := range d.tables.Groups {
		if g.ID == groupID {
			return g, nil
		}
	}
	return types.TransmissionGroup{}, types.MissingDataError{Region: groupID, Source: "group table"}
}

func (d *Dataset) Series(regionID string, weatherYear int) (aggregator.RegionSeries, error) {
	region, err := d.Region(regionID)
	if err != nil {
		return aggregator.RegionSeries{}, err
	}

	demand, err := d.readSeries(region.DatasetKey, weatherYear, "demand")
	if err != nil {
		return aggregator.RegionSeries{}, err
	}
	solarCF, err := d.readSeries(region.DatasetKey, weatherYear, "solar_cf")
	if err != nil {
		return aggregator.RegionSeries{}, err
	}
	windCF, err := d.readSeries(region.DatasetKey, weatherYear, "wind_cf")
	if err != nil {
		return aggregator.RegionSeries{}, err
	}

	return aggregator.RegionSeries{
		WeatherYear: weatherYear,
		Demand:      demand,
		SolarCF:     solarCF,
		WindCF:      windCF,
	}, nil
}

func (d *Dataset) Capacity(scenario string, targetYear int, regionID string) (types.CapacityMix, error) {
	classification := Classification(d.tables.Technologies)

	var mix types.CapacityMix
	found := false
	for _, row := range d.tables.Capacity {
		if row.Scenario != scenario || row.Year != targetYear || row.Region != regionID {
			continue
		}
		found = true
		if err := classification.Apply(&mix, row.Technology, row.GW); err != nil {
			return types.CapacityMix{}, err
		}
	}
	if !found {
		return types.CapacityMix{}, types.MissingDataError{
			Scenario: scenario, Region: regionID, Source: "capacity table",
		}
	}
	if err := mix.Validate(); err != nil {
		return types.CapacityMix{}, err
	}
	return mix, nil
}

func (d *Dataset) StorageSpec(scenario string, targetYear int, regionID string) (types.StorageSpec, error) {
	for _, row := range d.tables.Storage {
		if row.Scenario != scenario || row.Year != targetYear || row.Region != regionID {
			continue
		}
		spec := types.StorageSpec{
			DurationHours:       row.DurationHours,
			RoundTripEfficiency: row.RoundTripEfficiency,
			MinSOCFraction:      row.MinSOCFraction,
			MaxSOCFraction:      row.MaxSOCFraction,
		}
		if err := spec.Validate(); err != nil {
			return types.StorageSpec{}, err
		}
		return spec, nil
	}
	// No record is not an error for storage characteristics; the
	// fallback set is documented and explicit.
	d.log.Debug().Str("scenario", scenario).Str("region", regionID).
		Msg("no storage record, using fallback spec")
	return FallbackStorageSpec, nil
}

// readSeries loads one CSV series file and enforces the 8,760-hour
// frame. Missing file means missing data; a short or long file is an
// alignment failure, never truncated or padded.
func (d *Dataset) readSeries(datasetKey string, weatherYear int, kind string) (types.HourlySeries, error) {
	name := fmt.Sprintf("%s_%d_%s.csv", datasetKey, weatherYear, kind)
	path := filepath.Join(d.dir, name)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.MissingDataError{Region: datasetKey, Source: name}
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	series := make(types.HourlySeries, 0, types.HoursPerYear)
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		val, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, i+1, err)
		}
		series = append(series, val)
	}
	if err := series.Validate(name); err != nil {
		return nil, err
	}
	return series, nil
}
