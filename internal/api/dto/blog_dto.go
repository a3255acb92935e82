package dto

// BlogRequest payload for blog create/update.
type BlogRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	ImagePath string `json:"image_path"`
	Published bool   `json:"published"`
}
