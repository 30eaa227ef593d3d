package views

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"logdeck/internal/console/models"
)

// Export writes the current search's hits to a local CSV file. Without a
// prior search it exports unfiltered.
func (a *App) Export(ctx context.Context) error {
	name := "logs-" + time.Now().Format("20060102-150405") + ".csv"
	path, err := getOptionalText(a.reader, "Output file", name, a.out)
	if err != nil {
		return err
	}

	filters := a.lastSearch
	if filters == nil {
		filters = &models.SearchFilters{}
	}

	f, err := os.Create(path)
	if err != nil {
		printError(a.out, "Cannot create %s: %v", path, err)
		return err
	}
	defer f.Close()

	n, err := a.backend.ExportCSV(ctx, *filters, f)
	if err != nil {
		printError(a.out, "Export failed: %v", err)
		return err
	}

	printSuccess(a.out, "Wrote %d bytes to %s", n, path)
	return nil
}

// Recent lists the saved searches, local cache first, then the backend's
// account-wide history when reachable.
func (a *App) Recent(ctx context.Context) error {
	local, err := a.history.RecentSearches(ctx, 10)
	if err != nil {
		a.log.Warn(ctx, "failed to load local search history", "error", err)
	}
	if len(local) > 0 {
		printHeading(a.out, "Recent searches (this device)")
		renderFilters(a.out, local)
	}

	remote, err := a.backend.RecentSearches(ctx, 10)
	if err != nil {
		a.log.Warn(ctx, "failed to load backend search history", "error", err)
	} else if len(remote) > 0 {
		printHeading(a.out, "Recent searches (account)")
		renderFilters(a.out, remote)
	}

	if len(local) == 0 && len(remote) == 0 {
		printWarn(a.out, "No saved searches yet")
	}
	return nil
}

// Stats renders the backend's storage health report.
func (a *App) Stats(ctx context.Context) error {
	if err := a.backend.Health(ctx); err != nil {
		printError(a.out, "Backend unreachable: %v", err)
		return err
	}

	stats, err := a.backend.SystemStats(ctx)
	if err != nil {
		printError(a.out, "Failed to load system stats: %v", err)
		return err
	}

	printHeading(a.out, "System")
	renderTable(a.out, []string{"Component", "Status", "Detail"}, [][]string{
		{"elasticsearch", stats.Elasticsearch.Status,
			strconv.Itoa(stats.Elasticsearch.DocumentsCount) + " docs / " +
				strconv.Itoa(stats.Elasticsearch.IndicesCount) + " indices"},
		{"mongodb", stats.MongoDB.Status, stats.MongoDB.Database},
		{"redis", stats.Redis.Status, strconv.Itoa(stats.Redis.KeysCount) + " keys"},
	})
	return nil
}

func renderFilters(w io.Writer, filters []models.SearchFilters) {
	rows := make([][]string, 0, len(filters))
	for _, f := range filters {
		rng := "-"
		if f.StartDate != nil || f.EndDate != nil {
			var from, to string
			if f.StartDate != nil {
				from = f.StartDate.Format(time.DateOnly)
			}
			if f.EndDate != nil {
				to = f.EndDate.Format(time.DateOnly)
			}
			rng = from + ".." + to
		}
		rows = append(rows, []string{orDash(f.Query), orDash(f.Level), orDash(f.Service), rng})
	}
	renderTable(w, []string{"Query", "Level", "Service", "Dates"}, rows)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
