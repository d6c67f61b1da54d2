package models

// Clip defines a rectangular capture region in CSS pixels.
type Clip struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// CaptureOptions controls how a screenshot is taken.
type CaptureOptions struct {
	FullPage         bool
	Clip             *Clip
	HideSelectors    []string // elements masked via visibility:hidden before capture
	FreezeAnimations bool     // force all CSS animations/transitions to zero duration
}

// CompareOptions configures one visual comparison.
type CompareOptions struct {
	Capture   CaptureOptions
	Threshold float64 // max acceptable diff percentage; <=0 means use the service default
}

// VisualResult is the outcome of comparing a capture against its baseline.
type VisualResult struct {
	Passed         bool    `json:"passed"`
	DiffPixels     int     `json:"diff_pixels"`
	DiffPercent    float64 `json:"diff_percent"`
	Threshold      float64 `json:"threshold"`
	BaselineExists bool    `json:"baseline_exists"`
	DiffImagePath  string  `json:"diff_image_path,omitempty"`
	Message        string  `json:"message"`
}
