package data

import (
	"strconv"
	"strings"
)

// BenchFile is the metadata a benchmark filename carries:
// <processors>_<best_known_score>_<id>[_unit].in
type BenchFile struct {
	// Name is the full filename.
	Name string
	// Processors is the instance's processor count.
	Processors int
	// BestKnown is the best known score, 0 when unknown.
	BestKnown uint64
	// Unit marks instances whose tasks share one processing time.
	Unit bool
}

// ParseBenchFilename validates and splits a benchmark filename. Filenames
// not matching the shape are rejected with an InputError.
func ParseBenchFilename(name string) (BenchFile, error) {
	stem, _, _ := strings.Cut(name, ".")
	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		return BenchFile{}, inputErrorf("filename %q: expected processors_best_id[_unit].in", name)
	}

	processors, err := strconv.Atoi(parts[0])
	if err != nil {
		return BenchFile{}, inputErrorf("filename %q: bad processor count %q", name, parts[0])
	}
	best, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return BenchFile{}, inputErrorf("filename %q: bad best known score %q", name, parts[1])
	}
	if _, err := strconv.Atoi(parts[2]); err != nil {
		return BenchFile{}, inputErrorf("filename %q: bad id %q", name, parts[2])
	}

	return BenchFile{
		Name:       name,
		Processors: processors,
		BestKnown:  best,
		Unit:       len(parts) > 3 && parts[3] == "unit",
	}, nil
}
