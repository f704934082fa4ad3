package utils

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"
	"strings"

	"signal-brain/pkg/logger"
)

// GoSafe runs the given function in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		pc, _, _, ok := runtime.Caller(1)
		funcName := "unknown"
		if ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				parts := strings.Split(fn.Name(), "/")
				funcName = parts[len(parts)-1]
			}
		}

		log.Warn("Context cancelled",
			logger.StringField("caller", funcName),
		)
		return false
	default:
		return true
	}
}

// RoundTo rounds value to the given number of decimal places.
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// Clamp01 bounds value to the [0, 1] interval.
func Clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// PctDistance returns the absolute percentage distance between two prices.
// A zero reference price yields 0 to avoid division blowups on bad quotes.
func PctDistance(price, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return math.Abs(price-reference) / reference * 100
}

func FormatPrice(value float64) string {
	return fmt.Sprintf("$%.2f", value)
}

func FormatVolume(volume int64) string {
	switch {
	case volume >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(volume)/1_000_000)
	case volume >= 1_000:
		return fmt.Sprintf("%.0fK", float64(volume)/1_000)
	default:
		return fmt.Sprintf("%d", volume)
	}
}
