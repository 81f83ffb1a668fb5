package sim

// Clock is the external time source driving the simulation. The orchestrator
// never advances time itself; the host scheduler does.
type Clock interface {
	Day() int
	Tick() int
	TicksPerDay() int
	MarketOpen() bool
	Paused() bool
}

// Calendar is a plain Clock implementation for drivers and tests.
type Calendar struct {
	CurDay   int
	CurTick  int
	PerDay   int
	Open     bool
	IsPaused bool
}

func (c *Calendar) Day() int         { return c.CurDay }
func (c *Calendar) Tick() int        { return c.CurTick }
func (c *Calendar) TicksPerDay() int { return c.PerDay }
func (c *Calendar) MarketOpen() bool { return c.Open }
func (c *Calendar) Paused() bool     { return c.IsPaused }

// NextTick advances within the day, rolling over to the next day at the
// configured tick count.
func (c *Calendar) NextTick() {
	c.CurTick++
	if c.CurTick >= c.PerDay {
		c.CurTick = 0
		c.CurDay++
	}
}

// SeasonForDay maps a day index onto the rotating season calendar.
func SeasonForDay(day, daysPerSeason int, order []string) string {
	if len(order) == 0 || daysPerSeason <= 0 {
		return ""
	}
	return order[(day/daysPerSeason)%len(order)]
}

// DaysLeftInSeason counts the remaining days including the current one.
func DaysLeftInSeason(day, daysPerSeason int) int {
	if daysPerSeason <= 0 {
		return 0
	}
	return daysPerSeason - day%daysPerSeason
}
