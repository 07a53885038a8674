package services

// Point weights per observance flag. Congregational Fajr outweighs the
// other two; a perfect day is worth MaxDailyPoints.
const (
	SunnahFajrPoints = 1
	FajrJamaahPoints = 3
	FajrOntimePoints = 1

	MaxDailyPoints = SunnahFajrPoints + FajrJamaahPoints + FajrOntimePoints
)

// Score returns the points a daily record is worth.
func Score(sunnahFajr, fajrJamaah, fajrOntime bool) int {
	total := 0
	if sunnahFajr {
		total += SunnahFajrPoints
	}
	if fajrJamaah {
		total += FajrJamaahPoints
	}
	if fajrOntime {
		total += FajrOntimePoints
	}
	return total
}
