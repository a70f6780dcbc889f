// Package behavior implements the MITSIM car-following and lane-changing
// models (spec §4.4, §4.5), grounded on original_source's
// MITSIM_CF_Model.cpp and MITSIM_LC_Model.cpp, reworked around this repo's
// network/pathmover/neighbor types instead of the original's RoadSegment and
// raw pointer-neighbor lookups.
package behavior

import (
	"github.com/samber/lo"
	"github.com/simmobility/st-core/utils/config"
)

// DefaultParams mirrors the MITSIM reference defaults used when a
// deployment's YAML leaves a Behavioral field at its zero value (spec §6).
// Headways are in seconds. The MLC distances (FeetLow/FeetDelta) keep the
// original's feet-based values, and the speed-bucket width stays in ft/s and
// is converted to m/s inside SpeedBucket.
var DefaultParams = config.Behavioral{
	HeadwayLower:  1.5,
	HeadwayUpper:  3.5,
	YellowStopHdw: 2.0,
	SpeedScaler:   config.SpeedScaler{NBuckets: 5, BucketWidthFtPerS: 10},
	MLC: config.MLCParameters{
		FeetLow:     100,
		FeetDelta:   50,
		LaneCoef:    50,
		CongestCoef: 1.5,
		LaneMinTime: 2,
	},
}

// ParameterManager resolves a driver's vehicle-type parameters and the
// global gap/MLC tables, falling back to DefaultParams field-by-field for
// anything a deployment's config leaves unset (spec §6's "defaults to
// MITSIM reference values when omitted").
type ParameterManager struct {
	cfg config.Behavioral
}

// NewParameterManager merges cfg over DefaultParams zero-value fields.
func NewParameterManager(cfg config.Behavioral) *ParameterManager {
	merged := cfg
	if merged.HeadwayLower == 0 {
		merged.HeadwayLower = DefaultParams.HeadwayLower
	}
	if merged.HeadwayUpper == 0 {
		merged.HeadwayUpper = DefaultParams.HeadwayUpper
	}
	if merged.YellowStopHdw == 0 {
		merged.YellowStopHdw = DefaultParams.YellowStopHdw
	}
	if merged.SpeedScaler.NBuckets == 0 {
		merged.SpeedScaler = DefaultParams.SpeedScaler
	}
	if merged.MLC == (config.MLCParameters{}) {
		merged.MLC = DefaultParams.MLC
	}
	return &ParameterManager{cfg: merged}
}

// VehicleType looks up a vehicle type's speed-indexed tables, falling back
// to a flat conservative default for an unknown type rather than panicking
// (network loads may reference a vehicle type the config omitted).
func (m *ParameterManager) VehicleType(kind string) config.VehicleTypeParams {
	if p, ok := m.cfg.VehicleTypes[kind]; ok {
		return p
	}
	return config.VehicleTypeParams{
		MaxAccel:    [5]float64{2, 2, 2, 2, 2},
		NormalDecel: [5]float64{-2, -2, -2, -2, -2},
		MaxDecel:    [5]float64{-4, -4, -4, -4, -4},
	}
}

// SpeedBucket maps a speed in m/s to an index into the five-element
// acceleration/deceleration tables (spec §6).
func (m *ParameterManager) SpeedBucket(v float64) int {
	widthMps := m.cfg.SpeedScaler.BucketWidthFtPerS * 0.3048
	if widthMps <= 0 {
		return 0
	}
	n := m.cfg.SpeedScaler.NBuckets
	if n <= 0 {
		n = 5
	}
	idx := int(v / widthMps)
	return lo.Clamp(idx, 0, n-1)
}

func (m *ParameterManager) MaxAccel(kind string, v float64) float64 {
	p := m.VehicleType(kind)
	return p.MaxAccel[m.SpeedBucket(v)]
}

func (m *ParameterManager) NormalDecel(kind string, v float64) float64 {
	p := m.VehicleType(kind)
	return p.NormalDecel[m.SpeedBucket(v)]
}

func (m *ParameterManager) MaxDecel(kind string, v float64) float64 {
	p := m.VehicleType(kind)
	return p.MaxDecel[m.SpeedBucket(v)]
}

func (m *ParameterManager) HeadwayLower() float64  { return m.cfg.HeadwayLower }
func (m *ParameterManager) HeadwayUpper() float64  { return m.cfg.HeadwayUpper }
func (m *ParameterManager) YellowStopHdw() float64 { return m.cfg.YellowStopHdw }
func (m *ParameterManager) MLC() config.MLCParameters { return m.cfg.MLC }

// GapModel row indices (spec §4.5's "four parameter rows... additional rows
// for courtesy and forced modes").
const (
	GapDLCLead = iota
	GapDLCLag
	GapMLCLead
	GapMLCLag
	GapCourtesyLead
	GapCourtesyLag
	GapForcedLead
	GapForcedLag
)

func (m *ParameterManager) GapModel(row int) config.GapModelRow { return m.cfg.GapModels[row] }
