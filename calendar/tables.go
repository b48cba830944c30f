package calendar

// ProductionTables holds the Russian production calendar: New Year holidays,
// fixed state holidays and the government-decreed day transfers.
var ProductionTables = Tables{
	Fixed: []string{
		"01-01", "01-02", "01-03", "01-04", "01-05", "01-06", "01-07", "01-08",
		"02-23", "03-08", "05-01", "05-09", "06-12", "11-04",
	},
	WorkOnWeekend: []string{
		"2024-04-27", "2024-11-02", "2024-12-28", "2025-11-01",
	},
	RestOnWorkday: []string{
		"2024-04-29", "2024-04-30", "2024-05-10", "2024-12-30", "2024-12-31",
		"2025-05-02", "2025-05-08", "2025-06-13", "2025-11-03", "2025-12-31",
		"2026-01-09", "2026-12-31",
	},
	Short: []string{
		"2024-02-22", "2024-03-07", "2024-05-08", "2024-06-11", "2024-11-02",
		"2025-03-07", "2025-04-30", "2025-06-11", "2025-11-01",
		"2026-04-30", "2026-05-08", "2026-06-11", "2026-11-03",
	},
}
