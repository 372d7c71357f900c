// internal/domain/results/entity.go
package results

import (
	"time"

	"github.com/lib/pq"
)

// ResultRecord points at a released lab-result document in object storage.
// Panels lists the test panels the document covers.
type ResultRecord struct {
	ID         string         `json:"id" db:"id"`
	Subject    string         `json:"subject" db:"subject"`
	Title      string         `json:"title" db:"title"`
	Panels     pq.StringArray `json:"panels" db:"panels"`
	ObjectKey  string         `json:"-" db:"object_key"`
	ReleasedAt time.Time      `json:"released_at" db:"released_at"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}
