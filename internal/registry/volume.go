package registry

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// ParseVolume converts CVar text to a volume. Text that is empty or not a
// finite number yields model.DefaultVolume and ok=false.
func ParseVolume(text string) (v float64, ok bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return model.DefaultVolume, false
	}
	return v, true
}

// FormatVolume renders a volume the way it is stored as CVar text.
func FormatVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func logUnparseable(name, text string) {
	slog.Debug("unparseable channel value, using default",
		"channel", name,
		"value", text,
		"default", model.DefaultVolume,
	)
}
