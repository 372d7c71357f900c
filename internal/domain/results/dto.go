// internal/domain/results/dto.go
package results

// PublishRequest is the admin payload releasing a result document to a
// client.
type PublishRequest struct {
	Subject   string   `json:"subject" binding:"required"`
	Title     string   `json:"title" binding:"required"`
	Panels    []string `json:"panels"`
	ObjectKey string   `json:"object_key" binding:"required"`
}

// ResultView is the portal-facing listing entry.
type ResultView struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Panels     []string `json:"panels"`
	ReleasedAt string   `json:"released_at"`
}
