package utils

import (
	"fmt"
	"log"
	"time"

	"signal-brain/pkg/common"
)

func GetExchangeLocation() *time.Location {
	loc, err := time.LoadLocation(common.EXCHANGE_TIMEZONE)
	if err != nil {
		log.Fatal("Failed to load exchange location", err)
	}
	return loc
}

func TimeNowET() time.Time {
	return time.Now().In(GetExchangeLocation())
}

func PrettyDate(date time.Time) string {
	return fmt.Sprintf("%02d %s %d - %02d:%02d ET",
		date.Day(),
		date.Month().String()[:3],
		date.Year(),
		date.Hour(),
		date.Minute(),
	)
}

// MinutesOfDay returns the wall-clock time as minutes since midnight.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
