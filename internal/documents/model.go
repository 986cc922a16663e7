package documents

// Route is the backend-defined application route a document is submitted under.
type Route string

const (
	RouteVisualArt   Route = "visual_art"
	RouteCombinedArt Route = "combined_art"
)

// Valid reports whether the route is one the backend accepts.
func (r Route) Valid() bool {
	switch r {
	case RouteVisualArt, RouteCombinedArt:
		return true
	}
	return false
}

// EvidenceType classifies what kind of evidence an uploaded document is.
type EvidenceType string

const (
	EvidenceCV           EvidenceType = "cv"
	EvidenceMedia        EvidenceType = "media_coverage"
	EvidenceAppearance   EvidenceType = "evidence_of_appearance"
	EvidenceReference    EvidenceType = "reference_letter"
	EvidenceAwards       EvidenceType = "awards_and_recognition"
)

// Valid reports whether the evidence type is one the backend accepts.
func (e EvidenceType) Valid() bool {
	switch e {
	case EvidenceCV, EvidenceMedia, EvidenceAppearance, EvidenceReference, EvidenceAwards:
		return true
	}
	return false
}

// File holds download metadata for a stored document.
type File struct {
	DownloadURL string `json:"download_url,omitempty"`
	ViewURL     string `json:"view_url,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// Document is an uploaded file record as returned by the backend. The
// client never mutates one; ID is the stable join key to its analysis.
type Document struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        EvidenceType `json:"type"`
	Route       Route        `json:"route"`
	CreatedTime string       `json:"created_time,omitempty"`
	UpdatedTime string       `json:"updated_time,omitempty"`
	File        *File        `json:"file,omitempty"`
}
