package ingest

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// s3Notification is the subset of the S3 event payload the worker cares about.
type s3Notification struct {
	Records []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// ObjectKeysFromEvent decodes an S3 "object created" notification body and
// returns the affected object keys. Keys arrive URL-encoded with spaces as
// '+', so they are unescaped before use.
func ObjectKeysFromEvent(body []byte) ([]string, error) {
	var event s3Notification
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode storage event: %w", err)
	}
	if len(event.Records) == 0 {
		return nil, fmt.Errorf("storage event has no records")
	}

	var keys []string
	for _, record := range event.Records {
		if record.EventName != "" && !strings.HasPrefix(record.EventName, "ObjectCreated") {
			continue
		}
		raw := strings.ReplaceAll(record.S3.Object.Key, "+", " ")
		key, err := url.QueryUnescape(raw)
		if err != nil {
			return nil, fmt.Errorf("unescape object key %q: %w", record.S3.Object.Key, err)
		}
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
