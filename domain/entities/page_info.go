package entities

// PageSnapshot records where the browser was when a spec failed
type PageSnapshot struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}
