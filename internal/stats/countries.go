// Package stats summarises the deduplicated camera table for the console.
package stats

import (
	"fmt"
	"io"
	"sort"

	"ipcammap/internal/models"
)

// CountryCount is the number of cameras located in one country.
type CountryCount struct {
	Country string
	Count   int
}

// Summary is the end-of-run statistics block.
type Summary struct {
	Total        int
	Countries    int
	TopCountries []CountryCount
}

// Summarize counts cameras per country and keeps the top n, ordered by count
// descending then name ascending.
func Summarize(records []models.CameraRecord, n int) Summary {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Country]++
	}

	all := make([]CountryCount, 0, len(counts))
	for c, k := range counts {
		all = append(all, CountryCount{Country: c, Count: k})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Country < all[j].Country
	})
	if n >= 0 && len(all) > n {
		all = all[:n]
	}

	return Summary{Total: len(records), Countries: len(counts), TopCountries: all}
}

// Print writes the summary in the console format.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "\nStatistics:")
	fmt.Fprintf(w, "Total cameras found: %d\n", s.Total)
	fmt.Fprintf(w, "Countries: %d\n", s.Countries)
	fmt.Fprintln(w, "Top countries:")
	for _, c := range s.TopCountries {
		fmt.Fprintf(w, "  %-30s %d\n", c.Country, c.Count)
	}
}
