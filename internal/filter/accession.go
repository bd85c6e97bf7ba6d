package filter

import "strings"

// AccessionClass partitions RefSeq-style accessions by their prefix scheme.
type AccessionClass int

const (
	// AccessionOther covers identifiers outside the RefSeq prefix scheme.
	AccessionOther AccessionClass = iota
	// AccessionCurated covers the curated RefSeq prefixes (NM_, NP_, ...).
	AccessionCurated
	// AccessionPredicted covers the model/predicted prefixes (XM_, XP_, ...).
	AccessionPredicted
)

var curatedPrefixes = []string{"AC_", "AP_", "NC_", "NG_", "NM_", "NP_", "NR_", "NT_", "NW_", "NZ_"}
var predictedPrefixes = []string{"XM_", "XP_", "XR_"}

// ClassifyAccession returns the accession class of a record identifier. The
// prefix scheme is closed, so classification never fails.
func ClassifyAccession(id string) AccessionClass {
	for _, p := range curatedPrefixes {
		if strings.HasPrefix(id, p) {
			return AccessionCurated
		}
	}
	for _, p := range predictedPrefixes {
		if strings.HasPrefix(id, p) {
			return AccessionPredicted
		}
	}
	return AccessionOther
}
