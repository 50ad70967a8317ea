package feeds

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Feed names, used for circuit breakers, logs and metrics.
const (
	FeedWeather = "weather"
	FeedTransit = "transit"
)

const (
	DefaultSMHIBaseURL           = "https://opendata-download-metfcst.smhi.se"
	DefaultJourneyPlannerBaseURL = "https://journeyplanner.integration.sl.se/v2"
)

// SMHIForecastURL builds the SMHI point forecast URL for a coordinate.
func SMHIForecastURL(baseURL string, lat, lon float64) string {
	return fmt.Sprintf("%s/api/category/pmp3g/version/2/geotype/point/lon/%s/lat/%s/data.json",
		strings.TrimRight(baseURL, "/"), formatCoord(lon), formatCoord(lat))
}

// TripsURL builds the journey planner trips query between two stop ids.
func TripsURL(baseURL, fromID, toID string, trips int) string {
	values := url.Values{}
	values.Set("type_origin", "any")
	values.Set("name_origin", fromID)
	values.Set("type_destination", "any")
	values.Set("name_destination", toID)
	values.Set("calc_number_of_trips", strconv.Itoa(trips))

	return fmt.Sprintf("%s/trips?%s", strings.TrimRight(baseURL, "/"), values.Encode())
}

// formatCoord keeps at most six decimals, which is what SMHI accepts.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
