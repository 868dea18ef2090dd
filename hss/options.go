package hss

// Options carries the HSS_options keys spec.md §6 lists as recognized:
// leaf_size, d0, dd, random_engine, random_distribution,
// user_defined_random, plus the front-level indirect_sampling and
// separator_ordering_level flags that travel alongside them through the
// same opts value.
type Options struct {
	LeafSize                int
	D0                      int
	DD                      int
	RandomEngine            string
	RandomDistribution      string
	UserDefinedRandom       bool
	IndirectSampling        bool
	SeparatorOrderingLevel  int
	Tolerance               float64
	MaxCompressionRounds    int
}

// DefaultOptions mirrors the teacher's SetDefault idiom (gofem's
// inp.LinSolData.SetDefault): every Options value used by this package
// should start from this baseline and override only what the caller cares
// about.
func DefaultOptions() Options {
	return Options{
		LeafSize:             128,
		D0:                   128,
		DD:                   64,
		RandomEngine:         "linear",
		RandomDistribution:   "normal",
		Tolerance:            1e-10,
		MaxCompressionRounds: 4,
	}
}
