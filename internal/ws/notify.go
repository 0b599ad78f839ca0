package ws

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"
)

// JobAlertEvent announces fresh high-scoring matches for a posting.
type JobAlertEvent struct {
	Type      string `json:"type"`
	JobID     string `json:"job_id"`
	JobTitle  string `json:"job_title"`
	Matches   int    `json:"matches"`
	TopScore  int    `json:"top_score"`
	Timestamp string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

func NotifyJobAlert(jobID, jobTitle string, matches, topScore int) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	jobID = strings.TrimSpace(jobID)
	if jobID == "" || matches <= 0 {
		return
	}

	evt := JobAlertEvent{
		Type:      "job_alert",
		JobID:     jobID,
		JobTitle:  strings.TrimSpace(jobTitle),
		Matches:   matches,
		TopScore:  topScore,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.Broadcast(b)
}
