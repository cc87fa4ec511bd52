package utils

import "fmt"

// Redis key builders. Keeping these in one place so every deployable agrees
// on the cache layout.

func BuildTiplocKey(tiploc string) string {
	return fmt.Sprintf("tiploc:%s", tiploc)
}

func BuildScheduleKey(trainUID, date string) string {
	return fmt.Sprintf("schedule:%s:%s", trainUID, date)
}

func BuildLocationServicesKey(tiploc, date string) string {
	return fmt.Sprintf("location-services:%s:%s", tiploc, date)
}
