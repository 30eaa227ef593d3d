package views

import (
	"context"
	"strconv"
	"time"
)

// Dashboard renders the aggregate counters and breakdowns the backend
// computes over the log index.
func (a *App) Dashboard(ctx context.Context) error {
	stats, err := a.backend.DashboardStats(ctx)
	if err != nil {
		printError(a.out, "Failed to load dashboard: %v", err)
		return err
	}

	printHeading(a.out, "Dashboard")
	renderTable(a.out, []string{"Total Logs", "Today", "Errors", "Files"}, [][]string{{
		strconv.Itoa(stats.TotalLogs),
		strconv.Itoa(stats.LogsToday),
		strconv.Itoa(stats.ErrorLogs),
		strconv.Itoa(stats.FilesUploaded),
	}})

	if len(stats.LogsByLevel) > 0 {
		printHeading(a.out, "By level")
		rows := make([][]string, 0, len(stats.LogsByLevel))
		for _, b := range stats.LogsByLevel {
			rows = append(rows, []string{b.Level, strconv.Itoa(b.Count)})
		}
		renderTable(a.out, []string{"Level", "Count"}, rows)
	}

	if len(stats.LogsByService) > 0 {
		printHeading(a.out, "By service")
		rows := make([][]string, 0, len(stats.LogsByService))
		for _, b := range stats.LogsByService {
			rows = append(rows, []string{b.Service, strconv.Itoa(b.Count)})
		}
		renderTable(a.out, []string{"Service", "Count"}, rows)
	}

	if len(stats.RecentLogs) > 0 {
		printHeading(a.out, "Recent logs")
		rows := make([][]string, 0, len(stats.RecentLogs))
		for _, entry := range stats.RecentLogs {
			rows = append(rows, []string{
				entry.Timestamp.Local().Format(time.TimeOnly),
				entry.Level,
				entry.Service,
				truncate(entry.Message, 60),
			})
		}
		renderTable(a.out, []string{"Time", "Level", "Service", "Message"}, rows)
	}
	return nil
}
