package history

import "github.com/omarshaarawi/sleeperstats/internal/models"

const (
	// maxProbeWeeks bounds week probing when the season length is unknown.
	maxProbeWeeks = 25
	// emptyWeeksToStop consecutive empty or failed weeks end a probe.
	emptyWeeksToStop = 2
)

// SeasonLength returns the last week holding matchup data and whether it is
// known from settings. Round type 2 is a two-week bracket; anything else
// plays three playoff weeks.
func SeasonLength(settings models.SeasonSettings) (int, bool) {
	if settings.PlayoffWeekStart <= 0 {
		return 0, false
	}
	if settings.PlayoffRoundType == 2 {
		return settings.PlayoffWeekStart + 2, true
	}
	return settings.PlayoffWeekStart + 3, true
}
