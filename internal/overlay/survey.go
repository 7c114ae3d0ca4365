package overlay

// RARange bounds a footprint in right ascension. A nil range on a
// Footprint means the survey covers all right ascensions.
type RARange struct {
	MinDeg float64 `yaml:"min"`
	MaxDeg float64 `yaml:"max"`
}

// Footprint describes a static reference survey region. These are constant
// data, not fetched; the config file may override or extend the builtin set.
type Footprint struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Color          string   `yaml:"color"`
	DecMinDeg      float64  `yaml:"decMin"`
	DecMaxDeg      float64  `yaml:"decMax"`
	RARange        *RARange `yaml:"raRange,omitempty"`
	UsedInPipeline bool     `yaml:"used"`
}

// BuiltinFootprints returns the reference surveys plotted against DSA-110
// coverage. Declination limits follow the published survey definitions.
func BuiltinFootprints() []Footprint {
	return []Footprint{
		{
			ID:             "dsa110",
			Name:           "DSA-110 observable sky",
			Color:          "#14B8A6",
			DecMinDeg:      -52.8, // OVRO latitude 37.2N: horizon limit lat-90
			DecMaxDeg:      90,
			UsedInPipeline: true,
		},
		{
			ID:             "nvss",
			Name:           "NVSS 1.4 GHz",
			Color:          "#60A5FA",
			DecMinDeg:      -40,
			DecMaxDeg:      90,
			UsedInPipeline: true,
		},
		{
			ID:             "vlass",
			Name:           "VLASS",
			Color:          "#A78BFA",
			DecMinDeg:      -40,
			DecMaxDeg:      90,
			UsedInPipeline: true,
		},
		{
			ID:        "racs",
			Name:      "RACS-low",
			Color:     "#F59E0B",
			DecMinDeg: -90,
			DecMaxDeg: 49,
		},
		{
			ID:        "vast",
			Name:      "VAST pilot",
			Color:     "#F472B6",
			DecMinDeg: -90,
			DecMaxDeg: 41,
		},
	}
}

// FootprintByID looks up a footprint in a set; ok is false when absent.
func FootprintByID(fps []Footprint, id string) (Footprint, bool) {
	for _, fp := range fps {
		if fp.ID == id {
			return fp, true
		}
	}
	return Footprint{}, false
}
