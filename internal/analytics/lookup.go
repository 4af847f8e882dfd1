package analytics

import "brokerdash/server/internal/models"

const (
	// UnknownLabel is the fallback for IDs that resolve to nothing.
	UnknownLabel = "Unknown"
	// NotAvailable is the fallback the monitoring and transaction views use.
	NotAvailable = "N/A"
)

// EnumMap resolves enumeration item IDs of a constrained-choice field to
// their labels. Unknown IDs resolve to a fallback, never an error.
type EnumMap map[string]string

// NewEnumMap builds the ID to label mapping for one custom field key out of
// the field definitions. A missing field yields an empty map, so every lookup
// falls back.
func NewEnumMap(fields map[string]models.FieldMeta, key string) EnumMap {
	m := make(EnumMap)
	if meta, ok := fields[key]; ok {
		for _, item := range meta.Items {
			m[item.ID] = item.Value
		}
	}
	return m
}

func (m EnumMap) Resolve(id string) string {
	return m.ResolveOr(id, UnknownLabel)
}

func (m EnumMap) ResolveOr(id, fallback string) string {
	if label, ok := m[id]; ok && label != "" {
		return label
	}
	return fallback
}

// StatusMap resolves status directory entries (lead sources, lead statuses)
// to display names, keyed by their semantic STATUS_ID with the numeric row ID
// as a secondary key since deals reference sources either way.
type StatusMap struct {
	byStatusID map[string]string
	byRowID    map[string]string
}

func NewStatusMap(entries []models.StatusEntry) StatusMap {
	m := StatusMap{
		byStatusID: make(map[string]string, len(entries)),
		byRowID:    make(map[string]string, len(entries)),
	}
	for _, entry := range entries {
		m.byStatusID[entry.StatusID] = entry.Name
		m.byRowID[entry.ID] = entry.Name
	}
	return m
}

func (m StatusMap) Resolve(id string) string {
	return m.ResolveOr(id, UnknownLabel)
}

// ResolveOr prefers the STATUS_ID lookup, then the numeric row ID, then the
// fallback.
func (m StatusMap) ResolveOr(id, fallback string) string {
	if name, ok := m.byStatusID[id]; ok && name != "" {
		return name
	}
	if name, ok := m.byRowID[id]; ok && name != "" {
		return name
	}
	return fallback
}

// ResolveOrID falls back to the raw ID itself, the behavior the lead source
// chart uses so unmapped sources still chart under their identifier.
func (m StatusMap) ResolveOrID(id string) string {
	if id == "" {
		return UnknownLabel
	}
	return m.ResolveOr(id, id)
}
