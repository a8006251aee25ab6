package confsync

// Status classifies a source/destination pair
type Status string

const (
	StatusNew               Status = "new"
	StatusNewSourceSections Status = "new-source-sections"
	StatusOldVersion        Status = "destination-is-old-version"
	StatusChanged           Status = "destination-has-changed"
	StatusUpToDate          Status = "up-to-date"
)

// AllStatuses lists every status in display order
var AllStatuses = []Status{
	StatusNew,
	StatusNewSourceSections,
	StatusOldVersion,
	StatusChanged,
	StatusUpToDate,
}

func (s Status) String() string {
	return string(s)
}

// NeedsUpdate reports whether Update would do anything for this status
func (s Status) NeedsUpdate() bool {
	return s != StatusUpToDate
}
