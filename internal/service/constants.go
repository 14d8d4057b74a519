package service

const (
	// Listing limits
	RecentSessionsLimit = 20

	// Source recorded for sessions fed by a live tracker
	SourceLive = "live"

	// Steady share above which a run counts as well paced
	WellPacedSteadyPercent = 60

	// Struggling share above which a run counts as overreached
	OverreachedStrugglingPercent = 25

	// Shares above which a run counts as faded or hilly
	FadedPercent = 30
	HillyPercent = 30
)
