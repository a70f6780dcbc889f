package config

// GapModelRow is one row of the MITSIM critical-gap log-linear model:
// gap* = max(min, scale*exp(b0 + b1*dist + b2*dv + b3*min(dv,0) + b4*max(dv,0) + N(0,sigma))).
// Spec §4.5 names eight such rows (LC_GAP_MODELS_0..7): DLC-lead, DLC-lag,
// MLC-lead, MLC-lag, and courtesy/forced variants of each.
type GapModelRow struct {
	Scale float64 `yaml:"scale"`
	B0    float64 `yaml:"b0"`
	B1    float64 `yaml:"b1"`
	B2    float64 `yaml:"b2"`
	B3    float64 `yaml:"b3"`
	B4    float64 `yaml:"b4"`
	Sigma float64 `yaml:"sigma"`
}

// GapParamRow is a 6-tuple used by the gap-acceptance/merging logit (spec §6
// GAP_PARAM_0..2).
type GapParamRow struct {
	C0, C1, C2, C3, C4, C5 float64
}

// MLCParameters configures the mandatory-lane-change trigger distance and
// timing (spec §4.5, §6).
type MLCParameters struct {
	FeetLow     float64 `yaml:"feet_low"`
	FeetDelta   float64 `yaml:"feet_delta"`
	LaneCoef    float64 `yaml:"lane_coef"`
	CongestCoef float64 `yaml:"congest_coef"`
	LaneMinTime float64 `yaml:"lane_min_time"`
}

// SpeedScaler configures the speed-bucket index used by the acceleration and
// deceleration tables (spec §6): bucket = floor(speedMetersPerSec / (bucketWidthFtPerSec*0.3048)).
type SpeedScaler struct {
	NBuckets          int     `yaml:"n_buckets"`
	BucketWidthFtPerS float64 `yaml:"bucket_width_ft_per_sec"`
}

// VehicleTypeParams holds the per-vehicle-type speed-indexed tables (spec
// §4.4, §6): five-element max acceleration/normal deceleration/max
// deceleration vectors, and the ten-element random scale-multiplier tables
// with their weights. The scale tables are parsed but no code in this module
// draws a per-driver multiplier from them.
type VehicleTypeParams struct {
	MaxAccel            [5]float64  `yaml:"max_acc"`
	NormalDecel         [5]float64  `yaml:"normal_deceleration"`
	MaxDecel            [5]float64  `yaml:"max_deceleration"`
	MaxAccelScale       [10]float64 `yaml:"max_acceleration_scale"`
	MaxAccelScaleWeight [10]float64 `yaml:"max_acceleration_scale_weight"`
	MaxDecelScale       [10]float64 `yaml:"max_deceleration_scale"`
	MaxDecelScaleWeight [10]float64 `yaml:"max_deceleration_scale_weight"`
}

// Behavioral is the full MITSIM parameter surface (spec §6), loaded by name
// from the YAML `behavioral:` section and handed to a ParameterManager at
// startup. Fields left zero-valued fall back to the MITSIM reference
// defaults in behavior.DefaultParams.
type Behavioral struct {
	SpeedScaler   SpeedScaler                  `yaml:"speed_scaler"`
	VehicleTypes  map[string]VehicleTypeParams `yaml:"vehicle_types"`
	GapModels     [8]GapModelRow               `yaml:"lc_gap_models"`
	GapParams     [3]GapParamRow               `yaml:"gap_params"`
	MLC           MLCParameters                `yaml:"mlc_parameters"`
	HeadwayLower  float64                      `yaml:"headway_lower_sec"`
	HeadwayUpper  float64                      `yaml:"headway_upper_sec"`
	YellowStopHdw float64                      `yaml:"yellow_stop_headway_sec"`
}
