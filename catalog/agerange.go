package catalog

import (
	"fmt"
	"time"

	"github.com/shelterhq/refuge/search"
)

// AgeBucket is a semantic age range of an animal, relative to its species.
type AgeBucket string

const (
	AgeJunior AgeBucket = "JUNIOR"
	AgeAdult  AgeBucket = "ADULT"
	AgeSenior AgeBucket = "SENIOR"
)

// unboundedMonths marks a bucket with no upper age limit.
const unboundedMonths = -1

type ageRange struct {
	minMonths int
	maxMonths int
}

var ageRanges = map[Species]map[AgeBucket]ageRange{
	SpeciesCat: {
		AgeJunior: {minMonths: 0, maxMonths: 12},
		AgeAdult:  {minMonths: 12, maxMonths: 108},
		AgeSenior: {minMonths: 108, maxMonths: unboundedMonths},
	},
	SpeciesDog: {
		AgeJunior: {minMonths: 0, maxMonths: 12},
		AgeAdult:  {minMonths: 12, maxMonths: 108},
		AgeSenior: {minMonths: 108, maxMonths: unboundedMonths},
	},
	SpeciesBird: {
		AgeJunior: {minMonths: 0, maxMonths: 12},
		AgeAdult:  {minMonths: 12, maxMonths: unboundedMonths},
	},
	SpeciesReptile: {
		AgeJunior: {minMonths: 0, maxMonths: 12},
		AgeAdult:  {minMonths: 12, maxMonths: unboundedMonths},
	},
	SpeciesRodent: {
		AgeJunior: {minMonths: 0, maxMonths: 6},
		AgeAdult:  {minMonths: 6, maxMonths: 24},
		AgeSenior: {minMonths: 24, maxMonths: unboundedMonths},
	},
}

// AgeRangeClause converts a semantic age bucket for a species into a
// birthdate range clause over epoch-millisecond timestamps, evaluated at
// today's UTC date. An unrecognized species or bucket yields ok == false and
// the caller must omit the filter entirely, so a bad bucket can never match
// nothing or everything by accident.
func AgeRangeClause(species Species, bucket AgeBucket) (search.Clause, bool) {
	return ageRangeClauseAt(species, bucket, time.Now())
}

func ageRangeClauseAt(species Species, bucket AgeBucket, now time.Time) (search.Clause, bool) {
	buckets, ok := ageRanges[species]
	if !ok {
		return "", false
	}
	r, ok := buckets[bucket]
	if !ok {
		return "", false
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// Oldest admissible birthdate first: an animal exactly maxMonths old is
	// still in the bucket.
	maxBirthdate := today.AddDate(0, -r.minMonths, 0)
	if r.maxMonths == unboundedMonths {
		return search.Clause(fmt.Sprintf("%s <= %d", AttrBirthdateTimestamp, maxBirthdate.UnixMilli())), true
	}
	minBirthdate := today.AddDate(0, -r.maxMonths, 0)
	return search.Clause(fmt.Sprintf("%s %d TO %d",
		AttrBirthdateTimestamp, minBirthdate.UnixMilli(), maxBirthdate.UnixMilli())), true
}
