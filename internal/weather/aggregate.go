package weather

import "sort"

// RollupDays groups samples by calendar date and summarizes each day.
// Days come out in ascending date order. The dominant category is the most
// frequent code of the day; ties go to the smallest code.
func RollupDays(samples []HourlySample) []DailySummary {
	buckets := make(map[string][]HourlySample)
	keys := make([]string, 0)

	for _, s := range samples {
		k := s.Date()
		if _, ok := buckets[k]; !ok {
			keys = append(keys, k)
		}
		buckets[k] = append(buckets[k], s)
	}

	// Zero padded ISO dates order correctly as strings.
	sort.Strings(keys)

	days := make([]DailySummary, 0, len(keys))
	for _, k := range keys {
		days = append(days, summarizeDay(k, buckets[k]))
	}
	return days
}

func summarizeDay(date string, hours []HourlySample) DailySummary {
	var sumWind float64
	minTemp := hours[0].Temperature
	maxTemp := hours[0].Temperature
	counts := make(map[int]int)

	for _, h := range hours {
		minTemp = min(minTemp, h.Temperature)
		maxTemp = max(maxTemp, h.Temperature)
		sumWind += h.WindSpeed
		counts[h.Category]++
	}

	return DailySummary{
		Date:             date,
		MinTemperature:   minTemp,
		MaxTemperature:   maxTemp,
		AvgWindSpeed:     sumWind / float64(len(hours)),
		DominantCategory: dominantCategory(counts),
	}
}

func dominantCategory(counts map[int]int) int {
	codes := make([]int, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	best, bestCount := 0, 0
	for _, code := range codes {
		// Strictly greater keeps the smaller code on ties.
		if counts[code] > bestCount {
			best, bestCount = code, counts[code]
		}
	}
	return best
}
