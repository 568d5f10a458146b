package domain

// SurfaceType is the closed road-surface classification. Values mirror the
// directions service's surface codes; anything unrecognized maps to
// SurfaceUnknown.
type SurfaceType string

const (
	SurfaceUnknown         SurfaceType = "Unknown"
	SurfacePaved           SurfaceType = "Paved"
	SurfaceUnpaved         SurfaceType = "Unpaved"
	SurfaceAsphalt         SurfaceType = "Asphalt"
	SurfaceConcrete        SurfaceType = "Concrete"
	SurfaceMetal           SurfaceType = "Metal"
	SurfaceWood            SurfaceType = "Wood"
	SurfaceCompactedGravel SurfaceType = "Compacted Gravel"
	SurfaceGravel          SurfaceType = "Gravel"
	SurfaceDirt            SurfaceType = "Dirt"
	SurfaceGround          SurfaceType = "Ground"
	SurfaceIce             SurfaceType = "Ice"
	SurfacePavingStones    SurfaceType = "Paving Stones"
	SurfaceSand            SurfaceType = "Sand"
	SurfaceGrass           SurfaceType = "Grass"
	SurfaceGrassPaver      SurfaceType = "Grass Paver"
)

var surfaceCodes = map[int]SurfaceType{
	0:  SurfaceUnknown,
	1:  SurfacePaved,
	2:  SurfaceUnpaved,
	3:  SurfaceAsphalt,
	4:  SurfaceConcrete,
	6:  SurfaceMetal,
	7:  SurfaceWood,
	8:  SurfaceCompactedGravel,
	10: SurfaceGravel,
	11: SurfaceDirt,
	12: SurfaceGround,
	13: SurfaceIce,
	14: SurfacePavingStones,
	15: SurfaceSand,
	17: SurfaceGrass,
	18: SurfaceGrassPaver,
}

// SurfaceFromCode maps a raw service code to its SurfaceType.
// Unmapped codes become SurfaceUnknown.
func SurfaceFromCode(code int) SurfaceType {
	if s, ok := surfaceCodes[code]; ok {
		return s
	}
	return SurfaceUnknown
}

// SurfaceStatistic aggregates path segments of one surface type.
// Percentages over a full statistic set sum to 100 within rounding.
type SurfaceStatistic struct {
	Surface       SurfaceType
	TotalLengthKm float64
	Percentage    float64
}
