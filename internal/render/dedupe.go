package render

import "ipcammap/internal/models"

// Dedupe keeps the first record seen for each address, in order of first
// appearance. Later records for the same address are dropped whole.
func Dedupe(records []models.CameraRecord) []models.CameraRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.CameraRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Address]; ok {
			continue
		}
		seen[r.Address] = struct{}{}
		out = append(out, r)
	}
	return out
}
