// Package scenario loads a static propagation scenario — building and
// foliage footprints plus a vehicle placement list — from a directory on
// disk, populating a scene.Scene and an internal/cache.VehicleCache the
// way a mission's :NEW:VEHICLE: stream populates the teacher's
// EntityCache, but read up front for an offline batch run instead of
// arriving as a live event stream.
package scenario

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vanetlab/gemv2/internal/cache"
	"github.com/vanetlab/gemv2/internal/geo"
	"github.com/vanetlab/gemv2/pkg/scene"
	"github.com/vanetlab/gemv2/pkg/wkt"
)

const (
	buildingsFile = "buildings.wkt"
	foliageFile   = "foliage.wkt"
	vehiclesFile  = "vehicles.txt"
)

// Scenario bundles the loaded scene together with the vehicle cache that
// indexes its vehicles by placement name.
type Scenario struct {
	Scene    *scene.Scene
	Vehicles *cache.VehicleCache
}

// Load reads buildings.wkt, foliage.wkt, and vehicles.txt from dir and
// assembles a Scenario. buildings.wkt and foliage.wkt are optional (a
// scenario may have no obstacles); vehicles.txt must exist and name at
// least one vehicle.
//
// vehicles.txt is one placement per line:
//
//	<name> <length_m> <width_m> <height_m> <heading_deg> <x,y,z>
//
// Blank lines and lines starting with '#' are ignored.
func Load(dir string, logger zerolog.Logger) (*Scenario, error) {
	buildings, err := loadBuildings(filepath.Join(dir, buildingsFile))
	if err != nil {
		return nil, err
	}
	foliage, err := loadFoliage(filepath.Join(dir, foliageFile))
	if err != nil {
		return nil, err
	}

	sc := scene.NewFromObstacles(buildings, foliage)
	sc.SetLogger(logger)

	vehicleCache := cache.NewVehicleCache()
	if err := loadVehicles(filepath.Join(dir, vehiclesFile), sc, vehicleCache); err != nil {
		return nil, err
	}
	if len(vehicleCache.Names()) == 0 {
		return nil, fmt.Errorf("scenario: %s named no vehicles", vehiclesFile)
	}

	logger.Info().
		Int("buildings", len(buildings)).
		Int("foliage", len(foliage)).
		Int("vehicles", len(vehicleCache.Names())).
		Str("dir", dir).
		Msg("scenario loaded")

	return &Scenario{Scene: sc, Vehicles: vehicleCache}, nil
}

func loadBuildings(path string) ([]*scene.Building, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scenario: opening %s: %w", path, err)
	}
	defer f.Close()
	buildings, err := wkt.ParseBuildings(f)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return buildings, nil
}

func loadFoliage(path string) ([]*scene.Foliage, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scenario: opening %s: %w", path, err)
	}
	defer f.Close()
	foliage, err := wkt.ParseFoliage(f)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return foliage, nil
}

// loadVehicles parses the file at path and adds each placement to sc,
// registering it in vehicleCache under its placement name.
func loadVehicles(path string, sc *scene.Scene, vehicleCache *cache.VehicleCache) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scenario: opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, name, err := parseVehicleLine(line)
		if err != nil {
			return fmt.Errorf("scenario: %s:%d: %w", path, lineNo, err)
		}
		sc.AddVehicle(v)
		vehicleCache.Add(name, v)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scenario: reading %s: %w", path, err)
	}
	return nil
}

func parseVehicleLine(line string) (*scene.Vehicle, string, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return nil, "", fmt.Errorf("expected 6 fields (name length width height heading x,y,z), got %d", len(fields))
	}
	name := fields[0]

	dims := make([]float64, 3)
	for i, s := range fields[1:4] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, "", fmt.Errorf("parsing dimension %q: %w", s, err)
		}
		dims[i] = v
	}
	heading, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return nil, "", fmt.Errorf("parsing heading %q: %w", fields[4], err)
	}
	pos, err := geo.Position3DFromString(fields[5])
	if err != nil {
		return nil, "", fmt.Errorf("parsing position %q: %w", fields[5], err)
	}

	v := scene.NewVehicle(dims[0], dims[1], dims[2])
	v.SetHeading(heading)
	v.SetPosition(pos)
	return v, name, nil
}
