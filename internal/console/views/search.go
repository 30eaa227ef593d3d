package views

import (
	"context"
	"fmt"
	"time"

	"logdeck/internal/console/models"
)

const searchPageSize = 20

// Search prompts for filters, runs the search and renders the first page.
// The filters are remembered for the results view and CSV export, and
// cached in the local search history.
func (a *App) Search(ctx context.Context) error {
	query, err := getOptionalText(a.reader, "Query", "", a.out)
	if err != nil {
		return err
	}
	level, err := getOptionalText(a.reader, "Level (DEBUG/INFO/WARNING/ERROR/CRITICAL)", "", a.out)
	if err != nil {
		return err
	}
	service, err := getOptionalText(a.reader, "Service", "", a.out)
	if err != nil {
		return err
	}

	filters := models.SearchFilters{Query: query, Level: level, Service: service}

	result, err := a.backend.SearchLogs(ctx, filters, searchPageSize, 0)
	if err != nil {
		printError(a.out, "Search failed: %v", err)
		return err
	}

	a.lastSearch = &filters
	if err := a.history.SaveSearch(ctx, filters); err != nil {
		a.log.Warn(ctx, "failed to cache search locally", "error", err)
	}
	// History on the backend is best-effort too; the hits are already here.
	if err := a.backend.SaveSearch(ctx, filters); err != nil {
		a.log.Warn(ctx, "failed to save search on backend", "error", err)
	}

	a.renderHits(result)
	return nil
}

// Results re-renders the most recent search (falling back to the newest
// entry of the local history) so the user can come back to it after
// visiting other views.
func (a *App) Results(ctx context.Context) error {
	filters := a.lastSearch
	if filters == nil {
		recent, err := a.history.RecentSearches(ctx, 1)
		if err != nil {
			a.log.Warn(ctx, "failed to load local search history", "error", err)
		}
		if len(recent) == 0 {
			printWarn(a.out, "No search to show yet, use 'search' first")
			return nil
		}
		filters = &recent[0]
	}

	result, err := a.backend.SearchLogs(ctx, *filters, searchPageSize, 0)
	if err != nil {
		printError(a.out, "Failed to load results: %v", err)
		return err
	}

	a.lastSearch = filters
	a.renderHits(result)

	id, err := getOptionalText(a.reader, "Log id for details (Enter to skip)", "", a.out)
	if err != nil || id == "" {
		return err
	}

	entry, err := a.backend.LogDetails(ctx, id)
	if err != nil {
		printError(a.out, "Failed to load log %s: %v", id, err)
		return err
	}
	a.renderDetails(entry)
	return nil
}

func (a *App) renderHits(result *models.SearchResult) {
	printHeading(a.out, "%d hits (%d ms)", result.Total, result.Took)
	if len(result.Hits) == 0 {
		return
	}

	rows := make([][]string, 0, len(result.Hits))
	for _, entry := range result.Hits {
		rows = append(rows, []string{
			entry.ID,
			entry.Timestamp.Local().Format(time.DateTime),
			entry.Level,
			entry.Service,
			truncate(entry.Message, 60),
		})
	}
	renderTable(a.out, []string{"ID", "Timestamp", "Level", "Service", "Message"}, rows)
}

func (a *App) renderDetails(entry *models.LogEntry) {
	printHeading(a.out, "Log %s", entry.ID)
	rows := [][]string{
		{"timestamp", entry.Timestamp.Format(time.RFC3339)},
		{"level", entry.Level},
		{"service", entry.Service},
		{"message", entry.Message},
	}
	if entry.CustomerName != "" {
		rows = append(rows, []string{"customer", entry.CustomerName})
	}
	if entry.ProductName != "" {
		rows = append(rows, []string{"product", entry.ProductName})
	}
	if entry.Country != "" {
		rows = append(rows, []string{"country", entry.Country})
	}
	if entry.TotalAmount != 0 {
		rows = append(rows, []string{"amount", fmt.Sprintf("%.2f", entry.TotalAmount)})
	}
	renderTable(a.out, []string{"Field", "Value"}, rows)
}
