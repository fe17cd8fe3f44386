package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

var (
	httpClient = &http.Client{Timeout: 5 * time.Second}

	remoteMu  sync.RWMutex
	remoteURI string
	remoteJob = "product-catalog"
)

// SetRemote enables shipping of log entries to a Loki push endpoint.
// An empty uri disables it.
func SetRemote(uri, job string) {
	remoteMu.Lock()
	defer remoteMu.Unlock()
	remoteURI = uri
	if job != "" {
		remoteJob = job
	}
}

func remoteTarget() (string, string) {
	remoteMu.RLock()
	defer remoteMu.RUnlock()
	return remoteURI, remoteJob
}

// sendLog sends log entry in background
func sendLog(level, message string, attrs []slog.Attr) {
	uri, job := remoteTarget()
	if uri == "" {
		return
	}

	go func() {
		jsonData, err := json.Marshal(buildLogEntry(job, level, message, attrs))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal for remote log entry: %v\n", err)
			return
		}

		req, err := http.NewRequest(http.MethodPost, uri, bytes.NewBuffer(jsonData))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create request for remote log: %v\n", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := httpClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send to remote log: %v\n", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			fmt.Fprintf(os.Stderr, "Remote log returned error status: %d\n", resp.StatusCode)
		}
	}()
}
