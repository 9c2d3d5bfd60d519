package session

import "data-importer/core/reconcile"

// Filter holds the per-status visibility toggles used for display.
// UNKNOWN and UNKNOWN_MODIFICATION share the Unknown toggle.
type Filter struct {
	New        bool `json:"new" query:"new"`
	Deleted    bool `json:"deleted" query:"deleted"`
	Modified   bool `json:"modified" query:"modified"`
	Unmodified bool `json:"unmodified" query:"unmodified"`
	Faulty     bool `json:"faulty" query:"faulty"`
	Unknown    bool `json:"unknown" query:"unknown"`
}

// ShowAll enables every toggle.
func ShowAll() Filter {
	return Filter{New: true, Deleted: true, Modified: true, Unmodified: true, Faulty: true, Unknown: true}
}

// FilterOf enables the toggles of the given statuses.
func FilterOf(statuses ...reconcile.Status) Filter {
	var f Filter
	for _, s := range statuses {
		switch s {
		case reconcile.StatusNew:
			f.New = true
		case reconcile.StatusDeleted:
			f.Deleted = true
		case reconcile.StatusModified:
			f.Modified = true
		case reconcile.StatusUnmodified:
			f.Unmodified = true
		case reconcile.StatusFaulty:
			f.Faulty = true
		case reconcile.StatusUnknown, reconcile.StatusUnknownModification:
			f.Unknown = true
		}
	}
	return f
}

// Allows reports whether pairs of status s are visible.
func (f Filter) Allows(s reconcile.Status) bool {
	switch s {
	case reconcile.StatusNew:
		return f.New
	case reconcile.StatusDeleted:
		return f.Deleted
	case reconcile.StatusModified:
		return f.Modified
	case reconcile.StatusUnmodified:
		return f.Unmodified
	case reconcile.StatusFaulty:
		return f.Faulty
	case reconcile.StatusUnknown, reconcile.StatusUnknownModification:
		return f.Unknown
	}
	return false
}

// Entry is the display form of one pair. Values are rendered as text.
type Entry struct {
	ID       int               `json:"id"`
	Key      string            `json:"key"`
	Line     int               `json:"line,omitempty"`
	Status   reconcile.Status  `json:"status"`
	Incoming map[string]string `json:"incoming,omitempty"`
	Baseline map[string]string `json:"baseline,omitempty"`
	// Diff maps each changed property to the baseline's old value.
	Diff   map[string]string `json:"diff,omitempty"`
	Errors []string          `json:"errors,omitempty"`
}

// Column is a header that resolved to a mapped property.
type Column struct {
	Header   string `json:"header"`
	Property string `json:"property"`
	Label    string `json:"label,omitempty"`
}
